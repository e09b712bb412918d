// Package stitcherr 定义 stitch 的错误分类。所有错误都是致命的，顶层根据 Kind 决定如何展示。
package stitcherr

import (
	"errors"
	"fmt"
)

// Kind 是封闭的错误类别集合。
type Kind int

const (
	// CommandLine 表示参数结构问题：坐标数量不匹配、输入文件不存在等。
	CommandLine Kind = iota + 1
	// Parsing 表示坐标或清单内容无法解析。
	Parsing
	// ImageFormat 表示文件存在但无法解码为支持的图片格式。
	ImageFormat
	// IO 表示读写输出文件失败。
	IO
)

func (k Kind) String() string {
	switch k {
	case CommandLine:
		return "command-line"
	case Parsing:
		return "parsing"
	case ImageFormat:
		return "image-format"
	case IO:
		return "io"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error carries a kind, a user facing message and the optional underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Errorf 构造一个不带底层原因的错误。
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap 以 err 的文本作为消息，并保留 err 作为原因。prefix 非空时会拼在消息前面。
func Wrap(kind Kind, err error, prefix string) *Error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if prefix != "" {
		msg = prefix + ": " + msg
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
