package pathtemplate

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// RenderError is returned by Render when evaluation fails: an unknown
// variable, an unknown function, or a function called with the wrong
// arity.
type RenderError struct {
	Msg string
}

func (e *RenderError) Error() string { return "pathtemplate: render error: " + e.Msg }

func renderErrf(format string, args ...any) error {
	return &RenderError{Msg: fmt.Sprintf(format, args...)}
}

// Render evaluates a Template against a TemplateContext, producing the
// rendered string. Render is pure and deterministic.
func Render(t *Template, ctx TemplateContext) (string, error) {
	return renderParts(t.Parts, ctx)
}

// RenderWithExtension renders t, then appends ".<ext>" when the template
// does not itself reference the `ext` variable and ctx defines one.
func RenderWithExtension(t *Template, ctx TemplateContext) (string, error) {
	rendered, err := Render(t, ctx)
	if err != nil {
		return "", err
	}
	if !referencesVariable(t.Parts, "ext") {
		if ext, ok := ctx["ext"]; ok && ext != "" {
			rendered += "." + ext
		}
	}
	return rendered, nil
}

// RenderPath renders t with the extension rule applied, then normalizes
// the result into a platform-native relative path: internal separators
// collapse to '/', empty segments are dropped, and leading/trailing
// separators are stripped before conversion to the OS path form.
func RenderPath(t *Template, ctx TemplateContext) (string, error) {
	rendered, err := RenderWithExtension(t, ctx)
	if err != nil {
		return "", err
	}
	return NormalizePath(rendered), nil
}

func referencesVariable(parts []Part, name string) bool {
	for _, p := range parts {
		switch v := p.(type) {
		case Variable:
			if v.Name == name {
				return true
			}
		case Call:
			for _, arg := range v.Args {
				if referencesVariable(arg, name) {
					return true
				}
			}
		}
	}
	return false
}

func renderParts(parts []Part, ctx TemplateContext) (string, error) {
	var b strings.Builder
	for _, p := range parts {
		s, err := renderPart(p, ctx)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func renderPart(p Part, ctx TemplateContext) (string, error) {
	switch v := p.(type) {
	case Literal:
		return v.Text, nil
	case Variable:
		val, ok := ctx[v.Name]
		if !ok {
			return "", renderErrf("unknown variable %q", v.Name)
		}
		return val, nil
	case Call:
		args := make([]string, len(v.Args))
		for i, argParts := range v.Args {
			s, err := renderParts(argParts, ctx)
			if err != nil {
				return "", err
			}
			args[i] = s
		}
		return callFunction(v.Name, args)
	default:
		return "", renderErrf("unknown part type %T", p)
	}
}

func callFunction(name string, args []string) (string, error) {
	switch name {
	case "upper":
		if len(args) != 1 {
			return "", arityErr(name, 1, len(args))
		}
		return strings.ToUpper(args[0]), nil
	case "lower":
		if len(args) != 1 {
			return "", arityErr(name, 1, len(args))
		}
		return strings.ToLower(args[0]), nil
	case "title":
		if len(args) != 1 {
			return "", arityErr(name, 1, len(args))
		}
		return titleCase(args[0]), nil
	case "left":
		if len(args) != 2 {
			return "", arityErr(name, 2, len(args))
		}
		return takeRunes(args[0], args[1], true)
	case "right":
		if len(args) != 2 {
			return "", arityErr(name, 2, len(args))
		}
		return takeRunes(args[0], args[1], false)
	case "if":
		if len(args) != 2 && len(args) != 3 {
			return "", renderErrf("%s: expects 2 or 3 arguments, got %d", name, len(args))
		}
		if args[0] != "" {
			return args[1], nil
		}
		if len(args) == 3 {
			return args[2], nil
		}
		return "", nil
	case "first":
		if len(args) < 1 {
			return "", renderErrf("%s: expects at least 1 argument, got %d", name, len(args))
		}
		for _, a := range args {
			if a != "" {
				return a, nil
			}
		}
		return "", nil
	case "replace":
		if len(args) != 3 {
			return "", arityErr(name, 3, len(args))
		}
		return strings.ReplaceAll(args[0], args[1], args[2]), nil
	case "sanitize":
		if len(args) != 1 {
			return "", arityErr(name, 1, len(args))
		}
		return SanitizePathComponent(args[0]), nil
	case "asciify":
		if len(args) != 1 {
			return "", arityErr(name, 1, len(args))
		}
		return Asciify(args[0]), nil
	case "padnum":
		if len(args) != 2 {
			return "", arityErr(name, 2, len(args))
		}
		return padNum(args[0], args[1])
	default:
		return "", renderErrf("unknown function %q", name)
	}
}

func arityErr(name string, want, got int) error {
	return renderErrf("%s: expects %d argument(s), got %d", name, want, got)
}

func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	atWordStart := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			atWordStart = true
			b.WriteRune(r)
			continue
		}
		if atWordStart {
			b.WriteRune(unicode.ToUpper(r))
			atWordStart = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func takeRunes(s, nStr string, fromLeft bool) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(nStr))
	if err != nil {
		return "", renderErrf("expected integer count, got %q", nStr)
	}
	if n < 0 {
		n = 0
	}
	runes := []rune(s)
	if n >= len(runes) {
		return s, nil
	}
	if fromLeft {
		return string(runes[:n]), nil
	}
	return string(runes[len(runes)-n:]), nil
}

func padNum(value, widthStr string) (string, error) {
	width, err := strconv.Atoi(strings.TrimSpace(widthStr))
	if err != nil {
		return "", renderErrf("padnum: expected integer width, got %q", widthStr)
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return value, nil
	}
	return fmt.Sprintf("%0*d", width, n), nil
}

// NormalizePath collapses internal separators to '/', drops empty
// segments, and strips leading/trailing separators before converting the
// result to the OS-native path form.
func NormalizePath(s string) string {
	s = strings.ReplaceAll(s, "\\", "/")
	segments := strings.Split(s, "/")
	kept := segments[:0]
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		kept = append(kept, seg)
	}
	return filepathJoin(kept)
}
