package domain

import "encoding/json"

// Optional 记录一个字段是否在请求中出现。JSON 中缺失或为 null 的字段都视为未提供。
type Optional[T any] struct {
	value T
	set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

func (o Optional[T]) IsSet() bool {
	return o.set
}

// Interface 返回被提供的值，未提供时返回 nil，供 validator 的自定义类型函数使用
func (o Optional[T]) Interface() any {
	if !o.set {
		return nil
	}
	return o.value
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Optional[T]{}
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
