package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hemantajax/connectclo/internal/app"
	"github.com/hemantajax/connectclo/internal/domain"
	"github.com/hemantajax/connectclo/internal/grid"
	"github.com/hemantajax/connectclo/internal/usecase"
)

var browseURL string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog interactively",
	Long: `Open one storefront session and drive it with commands read from stdin.

Commands:
  type <text>          edit the search box (applied after a pause)
  clear                clear the search immediately
  pricing <opt>        toggle free, paid or view_only
  category <name>      toggle a category
  sort <key>           ITEM_NAME, HIGHER_PRICE, LOWER_PRICE, HIGHEST_RATED, MOST_REVIEWS
  price <min> <max>    restrict paid prices
  rating <min>         minimum rating
  reset                restore every filter
  scroll <y>           window scroll offset
  resize <w> <h>       viewport size
  show                 print the rendered rows
  url                  print the current location
  quit`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringVar(&browseURL, "url", "/products", "Initial location, query included")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	application, err := app.NewApp(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	s, err := application.OpenSession(cmd.Context(), browseURL)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer s.Close()
	s.Resize(1280, 800)

	return repl(s, cmd.InOrStdin(), cmd.OutOrStdout())
}

var errQuit = errors.New("quit")

func repl(s *app.Session, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	fmt.Fprintf(out, "%s\n> ", s.Location())
	for sc.Scan() {
		err := execLine(s, sc.Text(), out)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
		fmt.Fprint(out, "> ")
	}
	return sc.Err()
}

func execLine(s *app.Session, line string, out io.Writer) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit":
		return errQuit
	case "type":
		// keep inner spacing as typed
		text := strings.TrimPrefix(strings.TrimLeft(line, " \t"), fields[0])
		text = strings.TrimPrefix(text, " ")
		s.Type(text)
		fmt.Fprintf(out, "search: %q\n", s.SearchText())
	case "clear":
		s.ClearSearch()
	case "pricing":
		if len(args) != 1 {
			return errors.New("usage: pricing <free|paid|view_only>")
		}
		opt, ok := domain.ParsePricingOption(args[0])
		if !ok {
			return fmt.Errorf("%w: pricing %q", domain.ErrInvalidFilter, args[0])
		}
		return s.TogglePricing(opt)
	case "category":
		if len(args) == 0 {
			return errors.New("usage: category <name>")
		}
		s.ToggleCategory(strings.Join(args, " "))
	case "sort":
		if len(args) != 1 {
			return errors.New("usage: sort <key>")
		}
		return s.SortBy(domain.SortOption(strings.ToUpper(args[0])))
	case "price":
		nums, err := floats(args, 2)
		if err != nil {
			return fmt.Errorf("usage: price <min> <max>: %w", err)
		}
		return s.PriceRange(nums[0], nums[1])
	case "rating":
		nums, err := floats(args, 1)
		if err != nil {
			return fmt.Errorf("usage: rating <min>: %w", err)
		}
		return s.MinRating(nums[0])
	case "reset":
		s.Reset()
	case "scroll":
		nums, err := floats(args, 1)
		if err != nil {
			return fmt.Errorf("usage: scroll <y>: %w", err)
		}
		s.Scroll(nums[0])
	case "resize":
		nums, err := floats(args, 2)
		if err != nil {
			return fmt.Errorf("usage: resize <width> <height>: %w", err)
		}
		s.Resize(nums[0], nums[1])
	case "show":
		printWindow(out, s.View(), s.Window())
	case "url":
		fmt.Fprintln(out, s.Location())
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func floats(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("want %d numbers", n)
	}
	out := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func printWindow(out io.Writer, v usecase.View, w grid.Window[domain.Product]) {
	fmt.Fprintf(out, "%d of %d products, rows %d-%d of %d (%d per row)\n", v.Filtered, v.Total, w.Start, w.End, w.RowCount, w.Columns)
	if v.Filtered == 0 {
		fmt.Fprintln(out, "No products match your filters.")
		return
	}
	for _, r := range w.Rows {
		cells := make([]string, 0, len(r.Items))
		for _, p := range r.Items {
			cells = append(cells, fmt.Sprintf("%s (%s)", p.Title, domain.FormatPrice(p.Price, p.PricingOption)))
		}
		fmt.Fprintf(out, "%4d  %s\n", r.Index, strings.Join(cells, " | "))
	}
}
