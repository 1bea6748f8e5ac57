// Command csvparser is a thin demonstration consumer of the fastparser
// library: it compiles a small CSV grammar once at startup and uses it to
// parse a file (or stdin) into rows, printing the result as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	fastparser "github.com/john-rochester/fast-parser"
)

const csvGrammar = `
main .= row ('\n' row)* %joinRows
row .= field (',' field)* %joinRow
field .= /[^,\n]*/ %fieldText
`

var red = color.New(color.FgRed).SprintfFunc()

func main() {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", red(err.Error()))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "csvparser [file]",
	Short: "Parse a CSV file with fastparser and print it as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var input []byte
		var err error
		if len(args) == 1 {
			input, err = os.ReadFile(args[0])
		} else {
			input, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return err
		}

		parser, err := fastparser.CreateParser(csvGrammar, fastparser.Actions{
			Replacements: map[string]fastparser.Replacement{
				"fieldText": fieldText,
				"joinRow":   joinRow,
				"joinRows":  joinRows,
			},
		})
		if err != nil {
			return fmt.Errorf("invalid grammar: %w", err)
		}

		result := parser.Match(string(input))
		if result.Err != "" {
			return fmt.Errorf("%s", result.Err)
		}

		out, err := json.MarshalIndent(result.Result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func fieldText(values []any) any {
	return values[0].(fastparser.Token).Text
}

func joinRow(values []any) any {
	first := values[0].(string)
	rest := values[1].([]any)
	row := make([]string, 0, 1+len(rest))
	row = append(row, first)
	for _, v := range rest {
		row = append(row, v.(string))
	}
	return row
}

func joinRows(values []any) any {
	first := values[0].([]string)
	rest := values[1].([]any)
	rows := make([][]string, 0, 1+len(rest))
	rows = append(rows, first)
	for _, v := range rest {
		rows = append(rows, v.([]string))
	}
	return rows
}
