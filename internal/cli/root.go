package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/mealplan/internal/planning"
	"github.com/julianstephens/mealplan/internal/storage"
)

// Context is passed to every command's Run method.
type Context struct {
	Store   storage.Provider
	Manager *planning.Manager
	// Out receives command output; nil means stdout.
	Out io.Writer
}

// NewContext wires a manager over store.
func NewContext(store storage.Provider, opts ...planning.Option) *Context {
	return &Context{
		Store:   store,
		Manager: planning.NewManager(store, opts...),
	}
}

func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Writer(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Writer(), args...)
}
