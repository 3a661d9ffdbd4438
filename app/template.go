package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var ErrUnclosedPlaceholder = errors.New("unclosed placeholder")

// Templates loads templates lazily from the directory. Placeholders are written as {name},
// literal braces are escaped as {{ and }}.
type Templates struct {
	dir string
}

func NewTemplates(dir string) Templates {
	return Templates{dir: dir}
}

// Render loads the template and substitutes the values into it. A template that doesn't
// exist renders into an empty string. Placeholders without a value are an error.
func (t Templates) Render(name string, values map[string]string) (string, error) {
	path := filepath.Join(t.dir, filepath.Clean("/"+name))
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}

		return "", err
	}

	return substitute(string(content), values)
}

func substitute(template string, values map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(template))

	for len(template) > 0 {
		brace := strings.IndexAny(template, "{}")
		if brace == -1 {
			b.WriteString(template)
			break
		}

		b.WriteString(template[:brace])
		char := template[brace]
		template = template[brace+1:]

		if len(template) > 0 && template[0] == char {
			b.WriteByte(char)
			template = template[1:]
			continue
		}

		if char == '}' {
			// lone closing brace is kept as-is
			b.WriteByte(char)
			continue
		}

		name, rest, found := strings.Cut(template, "}")
		if !found {
			return "", ErrUnclosedPlaceholder
		}

		value, ok := values[name]
		if !ok {
			return "", &MissingValueError{Name: name}
		}

		b.WriteString(value)
		template = rest
	}

	return b.String(), nil
}

type MissingValueError struct {
	Name string
}

func (m *MissingValueError) Error() string {
	return "no value for placeholder {" + m.Name + "}"
}
