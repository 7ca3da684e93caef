package sandbox

import (
	"errors"
	"strings"
	"testing"
)

func newTestConsole(t *testing.T) *Console {
	t.Helper()
	c, err := NewConsole()
	if err != nil {
		t.Fatalf("NewConsole() error = %v", err)
	}
	return c
}

func TestRun_CapturesStdout(t *testing.T) {
	c := newTestConsole(t)
	msg := Run(c, `import "fmt"
fmt.Println("hello")
fmt.Println("world")`)
	if !msg.OK() {
		t.Fatalf("Run() exception = %q, want none", msg.Exception)
	}
	if msg.Content != "hello\nworld" {
		t.Errorf("Run() content = %q, want %q", msg.Content, "hello\nworld")
	}
}

func TestRun_IncompleteInput(t *testing.T) {
	c := newTestConsole(t)
	msg := Run(c, "func setup() {")
	if msg.OK() {
		t.Fatal("Run() on incomplete input reported success")
	}
	if !strings.Contains(msg.Exception, "incomplete") {
		t.Errorf("Run() exception = %q, want an incomplete-input message", msg.Exception)
	}
	if msg.Content != msg.Exception {
		t.Errorf("Run() content = %q, want it to equal the exception", msg.Content)
	}
}

func TestRun_CompileError(t *testing.T) {
	c := newTestConsole(t)
	msg := Run(c, "x := undefinedSymbol + 1")
	if msg.OK() {
		t.Fatal("Run() on broken input reported success")
	}
	if strings.Contains(msg.Exception, "\n") {
		t.Errorf("Run() exception spans lines: %q", msg.Exception)
	}
}

func TestRun_RuntimeErrorIsLastStderrLine(t *testing.T) {
	c := newTestConsole(t)
	msg := Run(c, `import "errors"
func boom() error { return errors.New("x") }
err := boom()
if err != nil { panic(err) }`)
	if msg.OK() {
		t.Fatal("Run() on panicking program reported success")
	}
	if strings.Contains(msg.Exception, "\n") {
		t.Errorf("exception should be a single line, got %q", msg.Exception)
	}
	if !strings.HasSuffix(msg.Content, msg.Exception) {
		t.Errorf("content %q does not end with exception %q", msg.Content, msg.Exception)
	}
}

func TestRun_StatePersistsAcrossRuns(t *testing.T) {
	c := newTestConsole(t)
	if msg := Run(c, "counter := 41"); !msg.OK() {
		t.Fatalf("first Run() exception = %q", msg.Exception)
	}
	msg := Run(c, `import "fmt"
counter++
fmt.Println(counter)`)
	if !msg.OK() {
		t.Fatalf("second Run() exception = %q", msg.Exception)
	}
	if msg.Content != "42" {
		t.Errorf("Run() content = %q, want %q", msg.Content, "42")
	}
}

func TestRunProgram_NoEntryPoint(t *testing.T) {
	c := newTestConsole(t)
	_, err := RunProgram(c, "x := 1", "")
	if !errors.Is(err, ErrNoEntryPoint) {
		t.Errorf("RunProgram() error = %v, want ErrNoEntryPoint", err)
	}
}

func TestRunProgram_CallsEntryPoint(t *testing.T) {
	c := newTestConsole(t)
	msg, err := RunProgram(c, `func greet() {
	fmt.Println("hi")
}`, `import "fmt"`)
	if err != nil {
		t.Fatalf("RunProgram() error = %v", err)
	}
	if !msg.OK() {
		t.Fatalf("RunProgram() exception = %q", msg.Exception)
	}
	if msg.Content != "hi" {
		t.Errorf("RunProgram() content = %q, want %q", msg.Content, "hi")
	}
}

func TestEntryPointName(t *testing.T) {
	tests := []struct {
		name    string
		program string
		want    string
		wantErr bool
	}{
		{"simple", "func setup() {}", "setup", false},
		{"preceded by comment", "// seed the world\nfunc seedWorld() {\n}", "seedWorld", false},
		{"no function", "x := 1", "", true},
		{"indented function skipped", "  func hidden() {}", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EntryPointName(tt.program)
			if (err != nil) != tt.wantErr {
				t.Errorf("EntryPointName() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("EntryPointName() = %v, want %v", got, tt.want)
			}
		})
	}
}
