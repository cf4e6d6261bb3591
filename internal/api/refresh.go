package api

import (
	"context"
	"fmt"

	"github.com/quizdeck/quizdeck-go/internal/session"
)

// refreshCycle is the singleton representing one in-flight token refresh. It
// exists from the first qualifying failure until its exchange settles; every
// concurrent failure joins the same cycle, so N simultaneous 401s produce
// exactly one refresh call.
type refreshCycle struct {
	done  chan struct{}
	token string
	err   error
}

// beginOrJoinRefresh returns the in-flight cycle, creating one when absent.
// Check-and-create is a single critical section, and a cycle that already
// settled and replaced the token the caller failed with yields nil: the
// caller can retry with the stored token without another exchange.
func (c *Client) beginOrJoinRefresh(sentWith string) *refreshCycle {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cycle != nil {
		return c.cycle
	}
	if current := c.store.AccessToken(); current != "" && current != sentWith {
		return nil
	}
	cy := &refreshCycle{done: make(chan struct{})}
	c.cycle = cy
	go c.runRefresh(cy)
	return cy
}

// currentCycle reports the in-flight cycle, if any.
func (c *Client) currentCycle() *refreshCycle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycle
}

// awaitRefresh blocks until the (possibly shared) cycle settles, returning
// the new access token or the refresh failure.
func (c *Client) awaitRefresh(ctx context.Context, sentWith string) (string, error) {
	cy := c.beginOrJoinRefresh(sentWith)
	if cy == nil {
		// A refresh settled between our failure and this call.
		return c.store.AccessToken(), nil
	}
	select {
	case <-cy.done:
		return cy.token, cy.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// runRefresh performs the single network exchange for a cycle. It runs under
// its own context so one waiter's cancellation cannot abort a refresh other
// requests depend on.
func (c *Client) runRefresh(cy *refreshCycle) {
	defer func() {
		// The singleton is destroyed the instant the cycle settles; a later,
		// independent failure starts a brand-new cycle.
		c.mu.Lock()
		c.cycle = nil
		c.mu.Unlock()
		close(cy.done)
	}()

	refreshToken := c.store.RefreshToken()
	if refreshToken == "" {
		// The store was cleared between the failure and this cycle starting.
		c.store.Clear()
		c.logout.Notify(session.ReasonTokenExpired)
		cy.err = fmt.Errorf("no refresh token available")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeouts.Default)
	defer cancel()

	pair, err := c.refresher.Refresh(ctx, refreshToken)
	if err != nil {
		c.store.Clear()
		c.logout.Notify(session.ReasonTokenExpired)
		c.logger.Warn().Err(err).Msg("token refresh failed, session ended")
		cy.err = err
		return
	}

	// Full overwrite of both tokens.
	c.store.SetTokens(pair.AccessToken, pair.RefreshToken)
	c.logger.Debug().Msg("access token refreshed")
	cy.token = pair.AccessToken
}
