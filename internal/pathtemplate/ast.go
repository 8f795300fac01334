// Package pathtemplate implements a path-template mini-language: a pure
// parser and evaluator that deterministically maps structured track
// metadata to filesystem paths.
package pathtemplate

// Part is one element of a parsed Template: a literal run of text, a
// variable reference, or a function call.
type Part interface {
	isPart()
}

// Literal is verbatim text copied to the output.
type Literal struct {
	Text string
}

// Variable is a `$name` or `${name}` reference into the TemplateContext.
type Variable struct {
	Name string
}

// Call is a `%name{arg,arg,...}` function invocation; each argument is
// itself a sequence of Parts since arguments may nest further calls.
type Call struct {
	Name string
	Args [][]Part
}

func (Literal) isPart() {}
func (Variable) isPart() {}
func (Call) isPart() {}

// Template is a parsed path template. Source retains the original text
// so templates can be round-tripped and displayed verbatim.
type Template struct {
	Source string
	Parts []Part
}

// TemplateContext is the string->string mapping used to render a
// Template. Missing variables cause a RenderError at render time.
type TemplateContext map[string]string
