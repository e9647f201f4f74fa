package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"
	"minilang/lexer"
	"minilang/pipeline"
	"minilang/token"
	"minilang/vm"
)

// replCmd implements the REPL command: an interactive loop compiling and
// running MiniLang snippets on the VM.
type replCmd struct {
	noOpt bool
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive compile-and-run session" }
func (*replCmd) Usage() string {
	return `repl [-no-opt]:
  Start an interactive MiniLang session. Type 'exit' to quit.
`
}

func (cmd *replCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.noOpt, "no-opt", false, "disable constant folding")
}

func (cmd *replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fmt.Println("\nWelcome to MiniLang! Type statements; a snippet runs once its braces close.")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	var buffer strings.Builder

	for {
		if buffer.Len() == 0 {
			rl.SetPrompt(">>> ")
		} else {
			rl.SetPrompt("... ")
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			buffer.Reset()
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 %v\n", err)
			return subcommands.ExitFailure
		}

		if strings.TrimSpace(line) == "exit" && buffer.Len() == 0 {
			return subcommands.ExitSuccess
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
		source := buffer.String()

		tokens, err := lexer.New(source).Scan()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			buffer.Reset()
			continue
		}

		if !isInputReady(tokens) {
			continue
		}

		// The grammar wants the program terminated by 'end'; supply it
		// so snippets don't have to.
		if !endsWithEnd(tokens) {
			source += "\nend"
		}

		artifacts, err := pipeline.Compile(source, pipeline.Options{Optimize: !cmd.noOpt})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			buffer.Reset()
			continue
		}
		for _, warning := range artifacts.Warnings {
			fmt.Fprintln(os.Stderr, warning)
		}

		machine := vm.New(artifacts.Machine)
		machine.UseStdin(os.Stdin)
		outputs, runErr := machine.Run()
		for _, value := range outputs {
			fmt.Println(value)
		}
		if runErr != nil {
			fmt.Fprintln(os.Stderr, runErr)
		}
		buffer.Reset()
	}
}

// isInputReady checks if the buffered input is ready to be compiled and
// executed. It checks for balanced braces, and whether the last non-EOF
// token is an operator or keyword that expects more input.
//
// For example, if the user types `if x > 5 {`, the REPL should wait for
// more input until the block is closed with `}`.
func isInputReady(tokens []token.Token) bool {

	braceBalance := 0
	ifCount, elseCount := 0, 0
	for _, tok := range tokens {
		switch tok.TokenType {
		case token.LCUR:
			braceBalance++
		case token.RCUR:
			braceBalance--
		case token.IF:
			ifCount++
		case token.ELSE:
			elseCount++
		}
	}

	if braceBalance > 0 {
		return false
	}

	// Every if needs its mandatory else before the snippet is complete.
	if ifCount > elseCount {
		return false
	}

	last := lastNonEOF(tokens)
	if last == nil {
		return false
	}

	switch last.TokenType {
	case token.ASSIGN,
		token.ADD,
		token.SUB,
		token.MULT,
		token.DIV,
		token.EQUAL_EQUAL,
		token.NOT_EQUAL,
		token.LESS,
		token.LESS_EQUAL,
		token.LARGER,
		token.LARGER_EQUAL,
		token.LPA,
		token.LCUR,
		token.IF,
		token.ELSE,
		token.WHILE,
		token.READ,
		token.PRINT:
		return false
	}

	return true
}

// lastNonEOF returns the last non-EOF token from the list of tokens.
// If all tokens are EOF, it returns nil.
func lastNonEOF(tokens []token.Token) *token.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].TokenType != token.EOF {
			return &tokens[i]
		}
	}
	return nil
}

// endsWithEnd reports whether the snippet already carries the program
// terminator.
func endsWithEnd(tokens []token.Token) bool {
	last := lastNonEOF(tokens)
	return last != nil && last.TokenType == token.END
}
