package dsl

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	manifestLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Number", Pattern: `[-+]?\d+(?:\.\d+)?`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.-]*`},
		{Name: "Symbol", Pattern: `[,;]`},
	})

	manifestParser = participle.MustBuild[Manifest](
		participle.Lexer(manifestLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
		participle.CaseInsensitive("Ident"),
	)
)

// Manifest is the root AST node of a layout file.
type Manifest struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Statements []*Statement   `parser:"Newline* ( @@ ( ';' | Newline )* )*"`
}

// Statement is either an output declaration or an image placement.
type Statement struct {
	Output *OutputStatement `parser:"  @@"`
	Image  *ImageStatement  `parser:"| @@"`
}

// OutputStatement declares the output path: `output "out.png"`.
type OutputStatement struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Path StringLiteral  `parser:"'output' @String"`
}

// ImageStatement places one image: `image "a.png" at 10, 20`.
type ImageStatement struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Path StringLiteral  `parser:"'image' @String"`
	At   *Coordinates   `parser:"( 'at' @@ )?"`
}

// Coordinates keep the raw tokens; numeric validation happens later so that
// manifests and command lines report the same errors.
type Coordinates struct {
	X string `parser:"@( Number | Ident )"`
	Y string `parser:"',' @( Number | Ident )"`
}

// Images returns the image statements in declaration order.
func (m *Manifest) Images() []*ImageStatement {
	var out []*ImageStatement
	for _, st := range m.Statements {
		if st.Image != nil {
			out = append(out, st.Image)
		}
	}
	return out
}

// Outputs returns every output statement in declaration order.
func (m *Manifest) Outputs() []*OutputStatement {
	var out []*OutputStatement
	for _, st := range m.Statements {
		if st.Output != nil {
			out = append(out, st.Output)
		}
	}
	return out
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a layout manifest from r. name is used in error positions.
func Parse(name string, r io.Reader) (*Manifest, error) {
	return manifestParser.Parse(name, r)
}

// ParseString parses a layout manifest from a string.
func ParseString(input string) (*Manifest, error) {
	return manifestParser.ParseString("", input)
}

// ParseFile 打开并解析 path 指向的布局文件。
func ParseFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(path, f)
}
