package format_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"indexbot/internal/calendar"
	"indexbot/internal/format"
	"indexbot/internal/quote"
)

var jerusalem = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Jerusalem")
	if err != nil {
		panic(err)
	}
	return loc
}()

func tradingDay(short bool) calendar.TradingDayInfo {
	open := time.Date(2025, 3, 11, 9, 25, 0, 0, jerusalem)
	closeH, closeM := 17, 45
	if short {
		closeH, closeM = 14, 45
	}
	return calendar.TradingDayInfo{
		IsTrading: true,
		IsShort:   short,
		Open:      open,
		Close:     time.Date(2025, 3, 11, closeH, closeM, 0, 0, jerusalem),
	}
}

func TestPercentExplicitSign(t *testing.T) {
	t.Parallel()

	require.Equal(t, "+1.23%", format.Percent(1.23))
	require.Equal(t, "-0.40%", format.Percent(-0.4))
	require.Equal(t, "+0.00%", format.Percent(0))
}

func TestNumberThousandsSeparator(t *testing.T) {
	t.Parallel()

	require.Equal(t, "2,412.50", format.Number(2412.5))
	require.Equal(t, "98.04", format.Number(98.039))
}

func TestEscape(t *testing.T) {
	t.Parallel()

	require.Equal(t, "\\+1\\.23%", format.Escape("+1.23%"))
	require.Equal(t, "TA\\-125", format.Escape("TA-125"))
}

func TestBuildHolidayHasReasonAndNoQuoteLines(t *testing.T) {
	t.Parallel()

	day := calendar.TradingDayInfo{IsTrading: false, Reason: "פסח"}
	quotes := []quote.Quote{{Name: "TA-125", Price: 2412.5, PrevClose: 2400}}

	msg := format.Build(quotes, time.Date(2025, 4, 13, 12, 0, 0, 0, jerusalem), true, day)

	require.Contains(t, msg, "פסח")
	require.NotContains(t, msg, "TA\\-125:")
	require.NotContains(t, msg, "▲")
}

func TestBuildLiveSession(t *testing.T) {
	t.Parallel()

	quotes := []quote.Quote{
		{Name: "TA-125", Price: 2429.5, PrevClose: 2400},
		{Name: "TA-35", Price: 2376, PrevClose: 2400},
		{Name: "Banks", Price: 5000, PrevClose: 5000.1},
	}
	now := time.Date(2025, 3, 11, 14, 30, 0, 0, jerusalem)

	msg := format.Build(quotes, now, false, tradingDay(false))

	require.Contains(t, msg, "עודכן: 14:30")
	require.Contains(t, msg, "▲ TA\\-125: \\+1\\.23% \\(2,429\\.50\\)")
	require.Contains(t, msg, "▼ TA\\-35: \\-1\\.00% \\(2,376\\.00\\)")
	require.Contains(t, msg, "■ Banks: \\-0\\.00% \\(5,000\\.00\\)")
	require.NotContains(t, msg, "מקוצר")
}

func TestBuildShortenedDayNote(t *testing.T) {
	t.Parallel()

	quotes := []quote.Quote{{Name: "TA-125", Price: 2412.5, PrevClose: 2400}}
	now := time.Date(2025, 3, 11, 11, 0, 0, 0, jerusalem)

	msg := format.Build(quotes, now, false, tradingDay(true))

	require.Contains(t, msg, "מקוצר")
	require.Contains(t, msg, "14:45")
}

func TestBuildOutsideHoursUsesQuoteDate(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 10, 17, 44, 0, 0, jerusalem)
	quotes := []quote.Quote{{Name: "TA-125", Price: 2412.5, PrevClose: 2400, At: at}}
	now := time.Date(2025, 3, 11, 7, 0, 0, 0, jerusalem)

	msg := format.Build(quotes, now, true, tradingDay(false))

	require.Contains(t, msg, "יום המסחר האחרון")
	require.Contains(t, msg, "10/03/2025")
	require.Contains(t, msg, "TA\\-125")
}

func TestBuildFooters(t *testing.T) {
	t.Parallel()

	msg := format.Build(nil, time.Date(2025, 3, 11, 14, 0, 0, 0, jerusalem), false, tradingDay(false))

	require.Contains(t, msg, "הערה")
	lines := strings.Split(msg, "\n")
	require.NotEmpty(t, lines[len(lines)-1])
}
