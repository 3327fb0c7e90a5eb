// Package format renders the channel message body. Pure functions, no
// I/O; the caller decides when and where the text goes.
package format

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"indexbot/internal/calendar"
	"indexbot/internal/quote"
)

const (
	title      = "מדדי ת\"א – שינוי יומי"
	disclaimer = "הערה: ייתכן עיכוב קטן בעדכון הנתונים."
	promo      = "לעדכונים שוטפים הישארו בערוץ 📈"
)

var printer = message.NewPrinter(language.English)

// Escape makes s safe to embed in a MarkdownV2 message. Dynamic content
// goes through it; literal markup we emit ourselves does not.
func Escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

// Percent renders a change percentage with an explicit sign, e.g.
// "+1.23%".
func Percent(pct float64) string {
	return fmt.Sprintf("%+.2f%%", pct)
}

// Number renders a price with thousands separators and two decimals.
func Number(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// flatBand is the half-width around zero inside which a change renders
// as flat rather than up or down.
const flatBand = 0.005

func arrow(pct float64) string {
	switch {
	case pct >= flatBand:
		return "▲"
	case pct <= -flatBand:
		return "▼"
	default:
		return "■"
	}
}

// Build assembles the full message. marketClosed means "trading day,
// but outside open hours"; non-trading days are signalled through day
// itself.
func Build(quotes []quote.Quote, now time.Time, marketClosed bool, day calendar.TradingDayInfo) string {
	var b strings.Builder
	b.WriteString("*" + Escape(title) + "*\n")

	switch {
	case !day.IsTrading:
		reason := day.Reason
		if reason == "" {
			reason = "אין מסחר"
		}
		b.WriteString(Escape(fmt.Sprintf("הבורסה סגורה היום (%s)", reason)))
		b.WriteString("\n")
	case marketClosed:
		at := now
		if len(quotes) > 0 && !quotes[0].At.IsZero() {
			at = quotes[0].At.In(now.Location())
		}
		b.WriteString("_" + Escape(fmt.Sprintf("נתוני יום המסחר האחרון (%s)", at.Format("02/01/2006"))) + "_\n")
	default:
		b.WriteString("_" + Escape(fmt.Sprintf("(עודכן: %s)", now.Format("15:04"))) + "_\n")
		if day.IsShort {
			b.WriteString(Escape(fmt.Sprintf("יום מסחר מקוצר – נעילה ב-%s", day.Close.Format("15:04"))))
			b.WriteString("\n")
		}
	}

	if day.IsTrading {
		b.WriteString("\n")
		for _, q := range quotes {
			pct := q.ChangePct()
			b.WriteString(fmt.Sprintf("%s %s: %s \\(%s\\)\n",
				arrow(pct), Escape(q.Name), Escape(Percent(pct)), Escape(Number(q.Price))))
		}
	}

	b.WriteString("\n" + "_" + Escape(disclaimer) + "_\n")
	b.WriteString(Escape(promo))
	return b.String()
}
