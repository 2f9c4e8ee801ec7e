package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/cmdlib/internal/catalog"
	"github.com/atomicstack/cmdlib/internal/logging"
	"github.com/atomicstack/cmdlib/internal/logging/events"
	"github.com/atomicstack/cmdlib/internal/ui/command"
)

const (
	actionShare   = "share"
	actionListing = "listing"
)

func (m *Model) shareCommand(cmd catalog.Command) tea.Cmd {
	if m.sharer == nil {
		m.errMsg = "sharing is not available"
		return nil
	}
	sharer := m.sharer
	text := cmd.Text
	events.Catalog.Share(len(text))
	return m.bus.Execute(command.Request{
		ID:    actionShare,
		Label: firstLine(text),
		Run: func(ctx context.Context) (string, error) {
			via, err := sharer.Share(ctx, text)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Copied to %s", via), nil
		},
	})
}

func (m *Model) openListing(label, pkg string) tea.Cmd {
	if m.market == nil {
		m.errMsg = "no application can open store listings"
		return nil
	}
	market := m.market
	return m.bus.Execute(command.Request{
		ID:    actionListing,
		Label: label,
		Run: func(ctx context.Context) (string, error) {
			url, err := market.OpenAppListing(ctx, pkg)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Opened %s", url), nil
		},
	})
}

// handleActionResultMsg reports the outcome of a share or listing action.
// Failures are logged and shown; they never leave the list.
func (m *Model) handleActionResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(command.Result)
	if !ok {
		return nil
	}
	if result.Err != nil {
		logging.Error(result.Err)
		events.Action.Error(result.Err)
		m.errMsg = fmt.Sprintf("%s failed: %v", result.ID, result.Err)
		m.forceClearInfo()
		return nil
	}
	m.errMsg = ""
	if result.Info != "" {
		m.setInfo(result.Info)
	}
	events.Action.Success(result.Info)
	return nil
}

func firstLine(text string) string {
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		return text[:i]
	}
	return text
}
