package sandbox

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoEntryPoint reports a program with no top-level function definition,
// which RunProgram needs to know what to call.
var ErrNoEntryPoint = errors.New("program has no top-level function definition")

var funcNameRe = regexp.MustCompile(`(?m)^func\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)

// EntryPointName extracts the name of the first top-level function defined
// in program. Returns ErrNoEntryPoint when none exists.
func EntryPointName(program string) (string, error) {
	m := funcNameRe.FindStringSubmatch(program)
	if m == nil {
		return "", ErrNoEntryPoint
	}
	return m[1], nil
}

// Run compiles and executes a program on the console. The program moves
// through compile check, then execution; syntactically broken or
// incomplete input short-circuits into a terminal Message. Runtime
// failures are captured into the Message as well — Run never lets a
// program failure escape as an error.
func Run(c *Console, program string) Message {
	prog, err := c.interp.Compile(program)
	if err != nil {
		if isIncomplete(err) {
			content := fmt.Sprintf(
				"Error: The given code was incomplete and could not be executed: %q", program)
			return Message{
				Sender:    RoleExecutionEnvironment,
				Recipient: RoleAgent,
				Content:   content,
				Exception: content,
			}
		}
		// Surface only the terminal error line; compile diagnostics may
		// span several lines and the earlier ones name internals the
		// agent has no business seeing.
		line := lastLine(err.Error())
		return Message{
			Sender:    RoleExecutionEnvironment,
			Recipient: RoleAgent,
			Content:   line,
			Exception: line,
		}
	}

	c.stdout.Reset()
	c.stderr.Reset()
	func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintln(&c.stderr, r)
			}
		}()
		if _, execErr := c.interp.Execute(prog); execErr != nil {
			fmt.Fprintln(&c.stderr, execErr)
		}
	}()
	stdout := c.stdout.String()
	stderr := c.stderr.String()

	var lines []string
	if trimmed := strings.TrimRight(stdout, "\n"); trimmed != "" {
		lines = strings.Split(trimmed, "\n")
	}
	exception := ""
	if strings.TrimSpace(stderr) != "" {
		// The last stderr line is the actual error; anything above it is
		// call-stack noise.
		exception = lastLine(stderr)
		lines = append(lines, exception)
	}
	return Message{
		Sender:    RoleExecutionEnvironment,
		Recipient: RoleAgent,
		Content:   strings.Join(lines, "\n"),
		Exception: exception,
	}
}

// RunProgram assembles an import preamble, the program source, and a call
// to the program's entry point into one script, then runs it. The error
// return is reserved for a malformed program with no entry point; program
// failures still come back inside the Message.
func RunProgram(c *Console, program, imports string) (Message, error) {
	name, err := EntryPointName(program)
	if err != nil {
		return Message{}, err
	}
	script := fmt.Sprintf("%s\n\n%s\n\n%s()", imports, program, name)
	return Run(c, script), nil
}

// isIncomplete reports whether a compile error is the scanner running off
// the end of truncated input, as opposed to a genuine syntax error.
func isIncomplete(err error) bool {
	return strings.Contains(err.Error(), "found 'EOF'")
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
