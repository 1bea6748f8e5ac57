// Command exprlang is a toy arithmetic expression language built on
// fastparser: a REPL that parses and evaluates one expression per line.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	fastparser "github.com/john-rochester/fast-parser"
)

const exprGrammar = `
expr = term ((!'+' | !'-') term)* %sum
term = factor ((!'*' | !'/') factor)* %product
factor = /[0-9]+(\.[0-9]+)?/ %number | '(' expr ')'
`

var (
	red    = color.New(color.FgRed).SprintfFunc()
	yellow = color.New(color.FgYellow).SprintfFunc()
)

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
	Use:   "exprlang",
	Short: "Evaluate arithmetic expressions, one per line",
	RunE: func(cmd *cobra.Command, args []string) error {
		parser, err := fastparser.CreateParser(exprGrammar, fastparser.Actions{
			Replacements: map[string]fastparser.Replacement{
				"number":  number,
				"sum":     sum,
				"product": product,
			},
		})
		if err != nil {
			return fmt.Errorf("invalid grammar: %w", err)
		}

		interactive := isatty.IsTerminal(os.Stdin.Fd())
		scanner := bufio.NewScanner(os.Stdin)
		for {
			if interactive {
				fmt.Print(yellow("> "))
			}
			if !scanner.Scan() {
				break
			}
			line := scanner.Text()
			if line == "" {
				continue
			}
			result := parser.Match(line)
			if result.Err != "" {
				fmt.Fprintf(os.Stderr, "%s\n", red(result.Err))
				continue
			}
			fmt.Println(result.Result)
		}
		return scanner.Err()
	},
}

func number(values []any) any {
	tok := values[0].(fastparser.Token)
	f, _ := strconv.ParseFloat(tok.Text, 64)
	return f
}

func sum(values []any) any {
	acc := values[0].(float64)
	for _, p := range values[1].([]any) {
		pair := p.([]any)
		op := pair[0].(fastparser.Token).Text
		rhs := pair[1].(float64)
		if op == "+" {
			acc += rhs
		} else {
			acc -= rhs
		}
	}
	return acc
}

func product(values []any) any {
	acc := values[0].(float64)
	for _, p := range values[1].([]any) {
		pair := p.([]any)
		op := pair[0].(fastparser.Token).Text
		rhs := pair[1].(float64)
		if op == "*" {
			acc *= rhs
		} else {
			acc /= rhs
		}
	}
	return acc
}
