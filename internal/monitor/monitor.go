package monitor

import (
	"fmt"
	"strings"
	"time"

	"stock-monitor-bot/internal/notify"
	"stock-monitor-bot/internal/quote"
	"stock-monitor-bot/internal/types"
	"stock-monitor-bot/lib/helpers"
	"stock-monitor-bot/lib/translation"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Config toggles for a monitoring pass
type Config struct {
	SendPriceAlert    bool
	SendSummaryReport bool
}

// Providers selects the quote provider for a target. Satisfied by
// quote.Registry.
type Providers interface {
	ForTarget(t types.Target) quote.Provider
}

// Callbacks for run accounting; any of them may be nil.
type Callbacks struct {
	OnChecked     func(symbol string)
	OnAlertSent   func(symbol string)
	OnFetchError  func(symbol string)
	OnNotifyError func(symbol string)
}

// Evaluate decides whether a quote crosses one of the target's thresholds.
// Returns nil when nothing fired. When the target is misconfigured so that
// both sides hold, the buy side wins and only one event is produced.
func Evaluate(t types.Target, q types.Quote) *types.AlertEvent {
	if q.Price.LessThanOrEqual(t.TargetPrice) {
		return &types.AlertEvent{Target: t, Quote: q, Direction: types.DirectionBuy}
	}
	if t.UpperLimit != nil && q.Price.GreaterThanOrEqual(*t.UpperLimit) {
		return &types.AlertEvent{Target: t, Quote: q, Direction: types.DirectionSell}
	}
	return nil
}

// Run walks the watchlist once: fetch, evaluate, notify. A failed fetch or
// a failed push is logged and counted, never fatal, so one bad symbol can't
// shadow the rest of the list.
func Run(cfg Config, targets []types.Target, providers Providers, notifier notify.Notifier, cb Callbacks) types.RunSummary {
	summary := types.RunSummary{}

	log.Infof("🔄 Checking %d targets...", len(targets))

	for _, target := range targets {
		summary.Checked++
		if cb.OnChecked != nil {
			cb.OnChecked(target.Symbol)
		}

		provider := providers.ForTarget(target)
		q, err := provider.Fetch(target.Symbol)
		if err != nil {
			log.Warnf("⚠️ %s: could not fetch price via %s, skipping: %v", target.Symbol, provider.Name(), err)
			summary.FetchErrors++
			if cb.OnFetchError != nil {
				cb.OnFetchError(target.Symbol)
			}
			summary.Entries = append(summary.Entries, types.SummaryEntry{Target: target})
			continue
		}

		statusIcon := "🔴"
		if q.Price.LessThanOrEqual(target.TargetPrice) {
			statusIcon = "🟢"
		}
		log.Infof("%s %s: $%s (target $%s)", statusIcon, target.Symbol, helpers.FormatPriceUS(q.Price), helpers.FormatPriceUS(target.TargetPrice))

		price := q.Price
		summary.Entries = append(summary.Entries, types.SummaryEntry{Target: target, Price: &price})

		event := Evaluate(target, *q)
		if event == nil || !cfg.SendPriceAlert {
			continue
		}

		log.Infof("📤 Sending %s alert for %s...", event.Direction, target.Symbol)
		if err := notifier.Send(AlertMessage(*event)); err != nil {
			log.Errorf("❌ Failed to send alert for %s: %v", target.Symbol, err)
			summary.NotifyErrors++
			if cb.OnNotifyError != nil {
				cb.OnNotifyError(target.Symbol)
			}
			continue
		}

		summary.AlertsSent++
		if cb.OnAlertSent != nil {
			cb.OnAlertSent(target.Symbol)
		}
	}

	if cfg.SendSummaryReport && len(summary.Entries) > 0 {
		log.Info("📊 Sending summary report...")
		if err := notifier.Send(SummaryMessage(summary.Entries, time.Now())); err != nil {
			log.Errorf("❌ Failed to send summary report: %v", err)
			summary.NotifyErrors++
			if cb.OnNotifyError != nil {
				cb.OnNotifyError("summary")
			}
		}
	}

	log.Infof("✅ Run completed: checked=%d alerts=%d fetchErrors=%d notifyErrors=%d",
		summary.Checked, summary.AlertsSent, summary.FetchErrors, summary.NotifyErrors)

	return summary
}

// AlertMessage renders the push notification text for a fired threshold.
func AlertMessage(ev types.AlertEvent) string {
	var b strings.Builder

	b.WriteString(translation.Translate("🚨 Stock price alert!"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("📈 %s - %s\n", ev.Target.Symbol, ev.Target.DisplayName()))
	b.WriteString(fmt.Sprintf(translation.Translate("💰 Current price: $%s"), helpers.FormatPriceUS(ev.Quote.Price)))
	b.WriteString("\n")

	hundred := decimal.NewFromInt(100)

	// Zero thresholds never pass watchlist validation, but don't let a
	// hand-crafted event divide by one either.
	switch ev.Direction {
	case types.DirectionSell:
		b.WriteString(fmt.Sprintf(translation.Translate("🔺 Upper limit: $%s"), helpers.FormatPriceUS(*ev.Target.UpperLimit)))
		if !ev.Target.UpperLimit.IsZero() {
			distance := ev.Quote.Price.Sub(*ev.Target.UpperLimit).Div(*ev.Target.UpperLimit).Mul(hundred).Abs()
			b.WriteString("\n")
			b.WriteString(fmt.Sprintf(translation.Translate("📈 Above limit by: %s%%"), distance.StringFixed(1)))
		}
	default:
		b.WriteString(fmt.Sprintf(translation.Translate("🎯 Target price: $%s"), helpers.FormatPriceUS(ev.Target.TargetPrice)))
		if !ev.Target.TargetPrice.IsZero() {
			discount := ev.Target.TargetPrice.Sub(ev.Quote.Price).Div(ev.Target.TargetPrice).Mul(hundred)
			b.WriteString("\n")
			b.WriteString(fmt.Sprintf(translation.Translate("📉 Below target by: %s%%"), discount.StringFixed(1)))
		}
	}

	if !ev.Quote.PreviousClose.IsZero() {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf(translation.Translate("📊 Day change: %s"), helpers.FormatPercent(ev.Quote.PercentChange)))
	}

	b.WriteString("\n\n")
	if ev.Direction == types.DirectionSell {
		b.WriteString(translation.Translate("💡 Consider taking profit according to your plan"))
	} else {
		b.WriteString(translation.Translate("💡 Consider buying according to your plan"))
	}

	return b.String()
}

// SummaryMessage renders the optional end-of-run report covering every
// target, including the ones whose fetch failed.
func SummaryMessage(entries []types.SummaryEntry, now time.Time) string {
	lines := []string{translation.Translate("📊 Stock price summary"), strings.Repeat("─", 18)}

	for _, entry := range entries {
		if entry.Price == nil {
			lines = append(lines, fmt.Sprintf("⚪ %s: N/A", entry.Target.Symbol))
			continue
		}

		statusIcon := "🔴"
		if entry.Price.LessThanOrEqual(entry.Target.TargetPrice) {
			statusIcon = "🟢"
		} else if entry.Target.UpperLimit != nil && entry.Price.GreaterThanOrEqual(*entry.Target.UpperLimit) {
			statusIcon = "🔺"
		}
		lines = append(lines, fmt.Sprintf("%s %s: $%s", statusIcon, entry.Target.Symbol, helpers.FormatPriceUS(*entry.Price)))
	}

	lines = append(lines, strings.Repeat("─", 18))
	lines = append(lines, translation.Translate("🟢 at target | 🔴 above target | 🔺 at limit"))
	lines = append(lines, fmt.Sprintf(translation.Translate("⏱ Updated %s"), humanize.Time(now)))

	return strings.Join(lines, "\n")
}
