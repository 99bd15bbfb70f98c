package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"strings"
	"syscall"

	"github.com/worklane/worklane/internal/models"
	"github.com/worklane/worklane/internal/projector"
	"github.com/worklane/worklane/pkg/clock"
	"github.com/worklane/worklane/pkg/timeutil"

	"github.com/spf13/cobra"
)

func newWatchCommand() *cobra.Command {
	var ownerID string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the active timer with a live elapsed display",
		Long: `Follow the active timer with a live elapsed display.

The counter is projected locally between server syncs, so the service is
not polled every second. It re-anchors on pushed refresh events and on a
periodic poll. Press Ctrl+C to exit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			api := &apiClient{baseURL: "http://" + cfg.Addr(), http: &http.Client{}}

			status, err := api.Status(ownerID)
			if err != nil {
				return fmt.Errorf("cannot reach worklane at %s (is it running?): %w", cfg.Addr(), err)
			}
			printStatus(status)

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			proj := projector.New(ownerID, api, clock.NewSystem(), logger, projector.Options{
				PollInterval: cfg.Projector.PollInterval,
				OnTick: func(elapsed int64) {
					fmt.Printf("\r%s elapsed ", timeutil.FormatClock(elapsed))
				},
			})
			proj.Run(ctx, api.subscribeRefresh(ctx))

			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&ownerID, "owner", "local", "owner whose timer to watch")
	return cmd
}

func printStatus(status *models.TimerStatus) {
	switch {
	case !status.HasActiveTimer:
		fmt.Println("No active timer; waiting for one to start...")
	case status.Timer != nil && status.Timer.IsPaused:
		fmt.Printf("Timer paused at %s elapsed\n", timeutil.FormatClock(status.ElapsedSeconds))
	default:
		fmt.Printf("Timer running, %s elapsed\n", timeutil.FormatClock(status.ElapsedSeconds))
	}
}

// apiClient talks to a running worklane service over its HTTP API.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func (c *apiClient) Status(ownerID string) (*models.TimerStatus, error) {
	resp, err := c.http.Get(c.baseURL + "/api/timer/status?owner_id=" + url.QueryEscape(ownerID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status request failed: %s", resp.Status)
	}
	var status models.TimerStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, err
	}
	return &status, nil
}

// subscribeRefresh forwards the server's SSE refresh events. If the stream
// drops, the returned channel simply goes quiet and the periodic poll keeps
// the projection anchored.
func (c *apiClient) subscribeRefresh(ctx context.Context) <-chan struct{} {
	signals := make(chan struct{}, 1)

	go func() {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/events", nil)
		if err != nil {
			return
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return
		}
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if strings.HasPrefix(scanner.Text(), "event: refresh") {
				select {
				case signals <- struct{}{}:
				default:
				}
			}
		}
	}()
	return signals
}
