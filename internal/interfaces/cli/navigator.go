package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/jhoicas/opshub/internal/application/ports"
)

// terminalNavigator en la terminal no hay páginas: "navegar al login" es avisar al usuario
// de que tiene que volver a ejecutar opshub login.
type terminalNavigator struct {
	mu      sync.Mutex
	current string
	w       io.Writer
}

var _ ports.Navigator = (*terminalNavigator)(nil)

func newTerminalNavigator(current string, w io.Writer) *terminalNavigator {
	return &terminalNavigator{current: current, w: w}
}

func (n *terminalNavigator) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *terminalNavigator) Navigate(path string) {
	n.mu.Lock()
	n.current = path
	n.mu.Unlock()

	if path == ports.LoginPath {
		fmt.Fprintln(n.w, `Run "opshub login" to sign in.`)
	}
}
