package main

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/alfredjeanlab/weft/internal/ui"
	"github.com/spf13/cobra"
)

// helpRule rewrites one kind of token in Cobra's plain-text help output.
type helpRule struct {
	re    *regexp.Regexp
	style func(match string, groups []string) string
}

// Applied in order to the default help text. Group headers are unindented
// lines ending with ":" ("Workflows:", "Flags:"); "Usage:" stays unstyled.
var helpRules = []helpRule{
	{
		re: regexp.MustCompile(`(?m)^([A-Z][^\n]*:)\s*$`),
		style: func(match string, _ []string) string {
			return ui.RenderAccent(strings.TrimSpace(match))
		},
	},
	// Command names: two-space indent, name, two-or-more spaces, description.
	{
		re: regexp.MustCompile(`(?m)^(  )(\S+)(  )`),
		style: func(_ string, g []string) string {
			return g[1] + ui.RenderCommand(g[2]) + g[3]
		},
	},
	// Flag type annotations such as "--url string".
	{
		re: regexp.MustCompile(`(--?\S+\s+)(string|int|int32|duration|stringSlice|stringArray)`),
		style: func(_ string, g []string) string {
			return g[1] + ui.RenderMuted(g[2])
		},
	},
	// Default values such as (default "http://localhost:8080").
	{
		re: regexp.MustCompile(`\(default "[^"]*"\)`),
		style: func(match string, _ []string) string {
			return ui.RenderMuted(match)
		},
	},
}

// colorizedHelpFunc returns a Cobra help function that post-processes the
// default help text with ANSI colors when the terminal supports it.
func colorizedHelpFunc() func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		orig := cmd.OutOrStdout()
		if !ui.ShouldUseColor() {
			cmd.SetOut(orig)
			_ = cmd.Usage()
			return
		}

		var buf bytes.Buffer
		cmd.SetOut(&buf)
		_ = cmd.Usage()
		cmd.SetOut(orig)

		fmt.Fprint(orig, colorizeHelpOutput(buf.String()))
	}
}

func colorizeHelpOutput(s string) string {
	for _, rule := range helpRules {
		s = rule.re.ReplaceAllStringFunc(s, func(match string) string {
			return rule.style(match, rule.re.FindStringSubmatch(match))
		})
	}
	return s
}
