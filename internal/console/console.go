package console

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/example/admin-dashboard/internal/controller"
	"github.com/example/admin-dashboard/internal/query"
	"github.com/example/admin-dashboard/internal/readmodel"
	"github.com/example/admin-dashboard/internal/resource"
	"github.com/example/admin-dashboard/internal/view"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	errProductsOnly   = errors.New("only available for products")
	errMissingArg     = errors.New("missing argument")
)

// Console is an interactive terminal dashboard. It keeps one view per
// resource so switching back and forth preserves each table's state.
type Console struct {
	query   *query.Handler
	views   map[string]*controller.View
	current string
	out     io.Writer
	log     *logrus.Entry
}

func New(q *query.Handler, out io.Writer, logger *logrus.Logger) (*Console, error) {
	c := &Console{
		query:   q,
		views:   make(map[string]*controller.View),
		current: readmodel.ResourceProducts,
		out:     out,
		log:     logger.WithField("component", "console"),
	}
	for _, name := range readmodel.Resources {
		v, err := controller.NewView(name, controller.WithPageChange(c.pageChanged))
		if err != nil {
			return nil, err
		}
		c.views[name] = v
	}
	return c, nil
}

func (c *Console) Current() string {
	return c.current
}

// Run reads commands until exit, EOF or interrupt
func (c *Console) Run(ctx context.Context, rl *readline.Instance) error {
	fmt.Fprintln(c.out, "Admin dashboard console. Type 'help' for commands, 'exit' to quit.")
	if err := c.Render(ctx); err != nil {
		c.log.WithError(err).Debug("Initial render failed")
	}

	for {
		rl.SetPrompt(fmt.Sprintf("\033[1;36m%s>\033[0m ", c.current))
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return nil
			}
			return err
		}

		quit, err := c.Execute(ctx, line)
		if err != nil {
			fmt.Fprintf(c.out, "\033[1;31mError:\033[0m %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// Execute runs one command line. Commands that change what is shown
// re-render the current table.
func (c *Console) Execute(ctx context.Context, line string) (bool, error) {
	line = strings.TrimLeft(line, " \t")
	if strings.TrimSpace(line) == "" {
		return false, nil
	}
	cmd, arg, _ := strings.Cut(line, " ")
	cmd = strings.ToLower(strings.TrimSpace(cmd))
	trimmed := strings.TrimSpace(arg)

	v := c.views[c.current]
	list := v.List()
	products := v.Products()

	switch cmd {
	case "exit", "quit", "\\q":
		return true, nil
	case "help", "\\h", "?":
		c.printHelp()
		return false, nil
	case "status":
		renderResources(c.out, c.query.Resources())
		return false, nil
	case "use":
		if _, ok := c.views[trimmed]; !ok {
			return false, errors.Wrapf(controller.ErrUnknownResource, "%q", trimmed)
		}
		c.current = trimmed
	case "search":
		// the term is kept as typed, trailing spaces included
		list.SetSearch(arg)
	case "category":
		if products == nil {
			return false, errors.Wrap(errProductsOnly, cmd)
		}
		products.SetCategory(trimmed)
	case "sort":
		if products == nil {
			return false, errors.Wrap(errProductsOnly, cmd)
		}
		key, err := view.ParseSortKey(trimmed)
		if err != nil {
			return false, err
		}
		products.SetSort(key)
	case "max-price":
		if products == nil {
			return false, errors.Wrap(errProductsOnly, cmd)
		}
		ceiling, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return false, errors.Wrapf(err, "max-price %q", trimmed)
		}
		if err := products.SetMaxPrice(ceiling); err != nil {
			return false, err
		}
	case "reset-price", "clear":
		if products == nil {
			return false, errors.Wrap(errProductsOnly, cmd)
		}
		ceiling, err := c.query.MaxPrice(ctx)
		if err != nil {
			renderFailure(c.out, c.current, err)
			return false, nil
		}
		if cmd == "clear" {
			products.ClearFilters(ceiling)
		} else {
			products.ResetPriceRange(ceiling)
		}
	case "size":
		n, err := intArg(cmd, trimmed)
		if err != nil {
			return false, err
		}
		if err := list.SetPageSize(n); err != nil {
			return false, err
		}
	case "page":
		n, err := intArg(cmd, trimmed)
		if err != nil {
			return false, err
		}
		if err := list.SetPage(n); err != nil {
			return false, err
		}
	case "next", "prev":
		page := list.State().Page
		if cmd == "next" {
			page++
		} else {
			page--
		}
		if page < 1 {
			return false, nil
		}
		if err := list.SetPage(page); err != nil {
			return false, err
		}
	case "refresh":
		fmt.Fprintf(c.out, "Refreshing %s...\n", c.current)
		if err := c.query.Refresh(ctx, c.current); err != nil {
			renderFailure(c.out, c.current, err)
			return false, nil
		}
	default:
		return false, errors.Wrapf(ErrUnknownCommand, "%q", cmd)
	}

	return false, c.Render(ctx)
}

// Render draws the current table. A failed load prints the error only.
func (c *Console) Render(ctx context.Context) error {
	v := c.views[c.current]
	if c.status(c.current) != resource.Ready {
		fmt.Fprintf(c.out, "Loading %s...\n", c.current)
	}

	result, err := c.query.View(ctx, v)
	if err != nil {
		renderFailure(c.out, c.current, err)
		return nil
	}

	switch r := result.(type) {
	case view.ProductView:
		renderProducts(c.out, r)
	case view.UserView:
		renderUsers(c.out, r)
	case view.MedicineView:
		renderMedicines(c.out, r)
	}
	return nil
}

func (c *Console) status(name string) resource.Status {
	for _, s := range c.query.Resources() {
		if s.Name == name {
			return s.Status
		}
	}
	return resource.Idle
}

// pageChanged stands in for scrolling back to the top of the table
func (c *Console) pageChanged(page int) {
	fmt.Fprintf(c.out, "--- page %d ---\n", page)
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, "Commands:")
	fmt.Fprintln(c.out, "  use <products|users|medicines>  Switch table")
	fmt.Fprintln(c.out, "  search <term>                   Filter rows (empty term clears)")
	fmt.Fprintln(c.out, "  category <name|all>             Products: filter by category")
	fmt.Fprintf(c.out, "  sort <key>                      Products: %s\n", sortKeyList())
	fmt.Fprintln(c.out, "  max-price <n>                   Products: set the price ceiling")
	fmt.Fprintln(c.out, "  reset-price                     Products: restore the full price range")
	fmt.Fprintln(c.out, "  clear                           Products: clear category, sort and price")
	fmt.Fprintf(c.out, "  size <n>                        Rows per page (%s)\n", pageSizeList())
	fmt.Fprintln(c.out, "  page <n>, next, prev            Navigate pages")
	fmt.Fprintln(c.out, "  refresh                         Reload the current resource")
	fmt.Fprintln(c.out, "  status                          Show every resource's state")
	fmt.Fprintln(c.out, "  help, exit")
}

func intArg(cmd, s string) (int, error) {
	if s == "" {
		return 0, errors.Wrap(errMissingArg, cmd)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "%s %q", cmd, s)
	}
	return n, nil
}

func sortKeyList() string {
	keys := make([]string, len(view.SortKeys))
	for i, k := range view.SortKeys {
		keys[i] = string(k)
	}
	return strings.Join(keys, ", ")
}

func pageSizeList() string {
	sizes := make([]string, len(view.PageSizes))
	for i, n := range view.PageSizes {
		sizes[i] = strconv.Itoa(n)
	}
	return strings.Join(sizes, ", ")
}
