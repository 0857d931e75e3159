package generator

import (
	"errors"
	"fmt"
	"strings"

	esbuild "github.com/evanw/esbuild/pkg/api"
)

// Validate parses the generated module with esbuild and reports syntax
// errors. The transformed output is discarded.
func Validate(src string) error {
	result := esbuild.Transform(src, esbuild.TransformOptions{
		Loader:   esbuild.LoaderJS,
		Format:   esbuild.FormatESModule,
		Target:   esbuild.ES2020,
		LogLevel: esbuild.LogLevelSilent,
	})
	if len(result.Errors) == 0 {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors))
	for _, msg := range result.Errors {
		if msg.Location != nil {
			msgs = append(msgs, fmt.Sprintf("%d:%d: %s", msg.Location.Line, msg.Location.Column, msg.Text))
			continue
		}
		msgs = append(msgs, msg.Text)
	}
	return errors.New("generated module is invalid: " + strings.Join(msgs, "; "))
}
