package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"coinscope/internal/domain"
	"coinscope/internal/ta"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newResolveCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "resolve <query>",
		Short: "Map a coin id, name or symbol to its CoinGecko id",
		Long: `Resolve tries an exact match on id, name and symbol (in that order) and
falls back to fuzzy suggestions when nothing matches exactly.

Examples:
  coinctl resolve btc
  coinctl resolve "bitcoin cash"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts, true)
			if err != nil {
				return err
			}
			defer s.close()

			query := strings.Join(args, " ")
			id, candidates, err := s.app.Coins.Resolve(s.ctx, query, limit)
			if err != nil {
				return err
			}

			if s.asJSON {
				return s.printJSON(resolveOutput{Query: query, ID: id, Candidates: candidates})
			}
			if id != "" {
				fmt.Fprintln(s.out, id)
				return nil
			}
			fmt.Fprintf(s.out, "No exact match for %q. Did you mean:\n", query)
			printCandidates(s, candidates)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 5, "maximum number of suggestions")
	return cmd
}

type resolveOutput struct {
	Query      string             `json:"query"`
	ID         string             `json:"id,omitempty"`
	Candidates []domain.Candidate `json:"candidates,omitempty"`
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "List fuzzy matches for a query, best first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts, true)
			if err != nil {
				return err
			}
			defer s.close()

			candidates, err := s.app.Coins.FuzzySearch(s.ctx, strings.Join(args, " "), limit)
			if err != nil {
				return err
			}

			if s.asJSON {
				return s.printJSON(candidates)
			}
			if len(candidates) == 0 {
				fmt.Fprintln(s.out, "No matches.")
				return nil
			}
			printCandidates(s, candidates)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of results")
	return cmd
}

func printCandidates(s *session, candidates []domain.Candidate) {
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tID\tNAME")
	for _, c := range candidates {
		fmt.Fprintf(w, "%d\t%s\t%s\n", c.Score, c.ID, c.Name)
	}
	_ = w.Flush()
}

func newMarketCmd(opts *rootOptions) *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "market <query>",
		Short: "Show market data for a coin",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts, true)
			if err != nil {
				return err
			}
			defer s.close()

			id, err := s.app.Coins.ResolveExact(s.ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			doc, err := s.app.Coins.GetMarketData(s.ctx, id)
			if err != nil {
				return err
			}

			if s.asJSON {
				return s.printJSON(doc)
			}
			return printMarket(s, doc, strings.ToLower(currency))
		},
	}

	cmd.Flags().StringVar(&currency, "currency", domain.DefaultCurrency, "quote currency")
	return cmd
}

func printMarket(s *session, doc *domain.MarketDocument, currency string) error {
	price, ok := doc.PriceIn(currency)
	if !ok {
		return fmt.Errorf("%w: no %s quote for %s", domain.ErrInvalidQuery, currency, doc.ID)
	}
	md := doc.MarketData

	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Coin\t%s (%s)\n", doc.Name, strings.ToUpper(doc.Symbol))
	if doc.MarketCapRank > 0 {
		fmt.Fprintf(w, "Rank\t#%d\n", doc.MarketCapRank)
	}
	fmt.Fprintf(w, "Price\t%s %s\n", amount(price), strings.ToUpper(currency))
	fmt.Fprintf(w, "24h Change\t%+.2f%%\n", md.PriceChangePercentage24h)
	fmt.Fprintf(w, "Market Cap\t%s\n", amount(md.MarketCap[currency]))
	fmt.Fprintf(w, "24h Volume\t%s\n", amount(md.TotalVolume[currency]))
	fmt.Fprintf(w, "Supply\t%s\n", amount(md.CirculatingSupply))
	fmt.Fprintf(w, "Fetched\t%s\n", humanize.Time(doc.FetchedAt))
	return w.Flush()
}

func newChartCmd(opts *rootOptions) *cobra.Command {
	var (
		currency string
		days     int
	)

	cmd := &cobra.Command{
		Use:   "chart <query>",
		Short: "Summarize the price chart of a coin",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts, true)
			if err != nil {
				return err
			}
			defer s.close()

			id, err := s.app.Coins.ResolveExact(s.ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			series, err := s.app.Coins.GetChart(s.ctx, id, strings.ToLower(currency), days)
			if err != nil {
				return err
			}

			summary, ok := series.Summary()
			if s.asJSON {
				out := chartOutput{Series: series}
				if ok {
					out.Summary = &summary
				}
				if ind, ok := ta.Analyze(series); ok {
					out.Indicators = &ind
				}
				return s.printJSON(out)
			}
			if !ok {
				fmt.Fprintf(s.out, "No chart points for %s over %d days.\n", id, days)
				return nil
			}

			w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Coin\t%s\n", id)
			fmt.Fprintf(w, "Range\t%d days (%s)\n", series.Days, strings.ToUpper(series.Currency))
			fmt.Fprintf(w, "Points\t%d\n", len(series.Points))
			fmt.Fprintf(w, "Open\t%s\n", amount(summary.Open))
			fmt.Fprintf(w, "High\t%s\n", amount(summary.High))
			fmt.Fprintf(w, "Low\t%s\n", amount(summary.Low))
			fmt.Fprintf(w, "Close\t%s\n", amount(summary.Close))
			fmt.Fprintf(w, "Change\t%+.2f%%\n", summary.ChangePct)
			if ind, ok := ta.Analyze(series); ok {
				fmt.Fprintf(w, "Volatility\t%.2f%%\n", ind.Volatility)
				if ind.RSI != nil {
					fmt.Fprintf(w, "RSI(%d)\t%.1f\n", ta.RSIPeriod, *ind.RSI)
				}
				if ind.EMA != nil {
					fmt.Fprintf(w, "EMA(%d)\t%s\n", ta.EMAPeriod, amount(*ind.EMA))
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&currency, "currency", domain.DefaultCurrency, "quote currency")
	cmd.Flags().IntVar(&days, "days", domain.DefaultChartDays, "chart range in days")
	return cmd
}

type chartOutput struct {
	Series     *domain.SeriesBuffer  `json:"series"`
	Summary    *domain.SeriesSummary `json:"summary,omitempty"`
	Indicators *ta.Indicators        `json:"indicators,omitempty"`
}

func newRefreshCoinsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-coins",
		Short: "Fetch the coin list from CoinGecko and persist it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts, false)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.app.Coins.RefreshDirectory(s.ctx); err != nil {
				return err
			}
			count := s.app.Coins.CoinCount()
			if s.asJSON {
				return s.printJSON(map[string]int{"coins": count})
			}
			fmt.Fprintf(s.out, "Stored %s coins.\n", humanize.Comma(int64(count)))
			return nil
		},
	}
}

func amount(v float64) string {
	if v != 0 && v < 1 && v > -1 {
		return humanize.FormatFloat("#,###.########", v)
	}
	return humanize.FormatFloat("#,###.##", v)
}
