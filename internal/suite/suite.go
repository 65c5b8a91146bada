// Package suite loads perft reference suites: named positions with their
// expected leaf counts per depth. A default suite is embedded in the binary.
package suite

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/hailam/chesslib/internal/position"
)

//go:embed perft.yaml
var defaultSuite []byte

// ErrInvalidSuite is returned when a suite fails validation.
var ErrInvalidSuite = errors.New("invalid perft suite")

// Case is one position with its reference counts. Nodes[i] is perft(i+1).
type Case struct {
	Name  string   `yaml:"name" validate:"required"`
	FEN   string   `yaml:"fen" validate:"required,fen"`
	Nodes []uint64 `yaml:"nodes" validate:"required,min=1,max=12,dive,min=1"`
}

// Suite is an ordered list of cases.
type Suite struct {
	Cases []Case `yaml:"cases" validate:"required,min=1,dive"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("fen", func(fl validator.FieldLevel) bool {
		_, err := position.FromFEN(fl.Field().String())
		return err == nil
	})
	if err != nil {
		panic(fmt.Sprintf("suite: register fen validation: %v", err))
	}
	return v
}

// Default returns the embedded suite.
func Default() (*Suite, error) {
	return Parse(defaultSuite)
}

// Load reads and validates a suite file.
func Load(filename string) (*Suite, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", filename, err)
	}
	s, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", filename, err)
	}
	return s, nil
}

// Parse decodes and validates a suite.
func Parse(b []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSuite, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks field constraints, that every FEN loads, and that case
// names are unique.
func (s *Suite) Validate() error {
	if err := ValidateStruct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSuite, err)
	}

	seen := make(map[string]struct{}, len(s.Cases))
	for _, c := range s.Cases {
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: case %q duplicated", ErrInvalidSuite, c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}

// Find returns the case with the given name.
func (s *Suite) Find(name string) (Case, bool) {
	for _, c := range s.Cases {
		if c.Name == name {
			return c, true
		}
	}
	return Case{}, false
}

// MaxDepth returns the deepest depth whose expected count does not exceed
// maxNodes, or 0 if even depth 1 does. maxNodes of 0 means no limit.
func (c Case) MaxDepth(maxNodes uint64) int {
	depth := 0
	for i, n := range c.Nodes {
		if maxNodes > 0 && n > maxNodes {
			break
		}
		depth = i + 1
	}
	return depth
}

// Expected returns the reference count at depth.
func (c Case) Expected(depth int) (uint64, bool) {
	if depth < 1 || depth > len(c.Nodes) {
		return 0, false
	}
	return c.Nodes[depth-1], true
}

// ValidateStruct runs struct tag validation and flattens the failures into
// one error.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var details strings.Builder
	for _, fe := range verrs {
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		switch fe.Tag() {
		case "required":
			fmt.Fprintf(&details, "%s is required", fe.Namespace())
		case "min":
			fmt.Fprintf(&details, "%s must be at least %s", fe.Namespace(), fe.Param())
		case "max":
			fmt.Fprintf(&details, "%s must be at most %s", fe.Namespace(), fe.Param())
		case "oneof":
			fmt.Fprintf(&details, "%s must be one of [%s]", fe.Namespace(), fe.Param())
		case "fen":
			fmt.Fprintf(&details, "%s is not a legal position: %q", fe.Namespace(), fe.Value())
		default:
			fmt.Fprintf(&details, "%s failed %s validation", fe.Namespace(), fe.Tag())
		}
	}
	return errors.New(details.String())
}
