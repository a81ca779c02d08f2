package membership

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func endingOn(s string) Member {
	return Member{Membership: &Membership{EndDate: strPtr(s)}}
}

func dayOf(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
	require.NoError(t, err)
	return d
}

func TestDerive(t *testing.T) {
	t.Parallel()

	today := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		in   Member
		want Result
	}{
		{
			name: "no membership defaults to inactive",
			in:   Member{},
			want: Result{Status: StatusInactive},
		},
		{
			name: "no membership uses fallback",
			in:   Member{MembershipStatus: strPtr("active")},
			want: Result{Status: StatusActive},
		},
		{
			name: "no membership with blank fallback",
			in:   Member{MembershipStatus: strPtr("  ")},
			want: Result{Status: StatusInactive},
		},
		{
			name: "no membership with unknown fallback",
			in:   Member{MembershipStatus: strPtr("suspended")},
			want: Result{Status: StatusInactive},
		},
		{
			name: "membership without end date defaults to active",
			in:   Member{Membership: &Membership{}},
			want: Result{Status: StatusActive},
		},
		{
			name: "membership without end date uses fallback",
			in:   Member{Membership: &Membership{}, MembershipStatus: strPtr("Expired")},
			want: Result{Status: StatusExpired},
		},
		{
			name: "membership without end date and empty fallback",
			in:   Member{Membership: &Membership{}, MembershipStatus: strPtr("")},
			want: Result{Status: StatusActive},
		},
		{
			name: "membership without end date and whitespace fallback",
			in:   Member{Membership: &Membership{}, MembershipStatus: strPtr("   ")},
			want: Result{Status: StatusInactive},
		},
		{
			name: "membership status echo is not a fallback",
			in:   Member{Membership: &Membership{Status: strPtr("inactive")}},
			want: Result{Status: StatusActive},
		},
		{
			name: "malformed end date",
			in:   endingOn("not-a-date"),
			want: Result{Status: StatusActive},
		},
		{
			name: "same day is expiring",
			in:   endingOn("2025-01-01"),
			want: Result{Status: StatusExpiring, DaysRemaining: intPtr(0)},
		},
		{
			name: "eight days out is expiring",
			in:   endingOn("2025-01-09"),
			want: Result{Status: StatusExpiring, DaysRemaining: intPtr(8)},
		},
		{
			name: "nine days out is active",
			in:   endingOn("2025-01-10"),
			want: Result{Status: StatusActive, DaysRemaining: intPtr(9)},
		},
		{
			name: "yesterday is expired with zero days",
			in:   endingOn("2024-12-31"),
			want: Result{Status: StatusExpired, DaysRemaining: intPtr(0)},
		},
		{
			name: "end date wins over fallback",
			in:   Member{Membership: &Membership{EndDate: strPtr("2024-06-01")}, MembershipStatus: strPtr("active")},
			want: Result{Status: StatusExpired, DaysRemaining: intPtr(0)},
		},
		{
			name: "timestamp end date ignores time of day",
			in:   endingOn("2025-01-03T23:59:59.000Z"),
			want: Result{Status: StatusExpiring, DaysRemaining: intPtr(2)},
		},
		{
			name: "far future is active",
			in:   endingOn("2026-01-01T00:00:00Z"),
			want: Result{Status: StatusActive, DaysRemaining: intPtr(365)},
		},
		{
			name: "centuries out keeps the exact day count",
			in:   endingOn("2400-01-01"),
			want: Result{Status: StatusActive, DaysRemaining: intPtr(136965)},
		},
		{
			name: "last representable day",
			in:   endingOn("9999-12-31"),
			want: Result{Status: StatusActive, DaysRemaining: intPtr(2912807)},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Derive(tc.in, today))
		})
	}
}

func TestDerive_MalformedEndDateMatchesMissing(t *testing.T) {
	t.Parallel()

	today := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, fb := range []*string{nil, strPtr("expired"), strPtr("inactive")} {
		malformed := Member{Membership: &Membership{EndDate: strPtr("not-a-date")}, MembershipStatus: fb}
		missing := Member{Membership: &Membership{}, MembershipStatus: fb}
		assert.Equal(t, Derive(missing, today), Derive(malformed, today))
	}
}

func TestDerive_TimeOfDayDoesNotMatter(t *testing.T) {
	t.Parallel()

	m := endingOn("2025-01-09")
	early := time.Date(2025, 1, 1, 0, 0, 1, 0, time.UTC)
	late := time.Date(2025, 1, 1, 23, 59, 59, 0, time.UTC)

	assert.Equal(t, Derive(m, early), Derive(m, late))
	assert.Equal(t, Derive(m, Today(late)), Derive(m, late))
}

func TestDerive_UsesTodayLocation(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("IST", 5*3600+1800)
	// 2025-01-08T20:00Z is already 2025-01-09 in IST.
	m := endingOn("2025-01-08T20:00:00Z")
	today := time.Date(2025, 1, 1, 9, 0, 0, 0, loc)

	got := Derive(m, today)
	require.NotNil(t, got.DaysRemaining)
	assert.Equal(t, 8, *got.DaysRemaining)
	assert.Equal(t, StatusExpiring, got.Status)
}

func TestDerive_AcrossDSTTransition(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	today := time.Date(2025, 3, 1, 0, 0, 0, 0, loc)
	got := Derive(endingOn("2025-03-20"), today)
	require.NotNil(t, got.DaysRemaining)
	assert.Equal(t, 19, *got.DaysRemaining)
}

func TestDerive_NeverNegativeAndDeterministic(t *testing.T) {
	t.Parallel()

	today := dayOf(t, "2025-01-01")
	for offset := -400; offset <= 400; offset += 7 {
		m := endingOn(today.AddDate(0, 0, offset).Format(time.DateOnly))
		first := Derive(m, today)
		second := Derive(m, today)
		require.Equal(t, first, second, "offset %d", offset)
		require.NotNil(t, first.DaysRemaining)
		assert.GreaterOrEqual(t, *first.DaysRemaining, 0, "offset %d", offset)
		if offset < 0 {
			assert.Equal(t, StatusExpired, first.Status, "offset %d", offset)
			assert.Equal(t, 0, *first.DaysRemaining, "offset %d", offset)
		}
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	today := dayOf(t, "2025-01-01")
	members := []Member{
		endingOn(today.AddDate(0, 0, 30).Format(time.DateOnly)),
		endingOn(today.AddDate(0, 0, -5).Format(time.DateOnly)),
		endingOn(today.AddDate(0, 0, 3).Format(time.DateOnly)),
		{},
	}

	got := Summarize(members, today)
	assert.Equal(t, Summary{Total: 4, Active: 1, Expired: 1, Expiring: 1, Inactive: 1}, got)
}

func TestSummarize_TotalIsConserved(t *testing.T) {
	t.Parallel()

	today := dayOf(t, "2025-01-01")
	members := []Member{
		{},
		{MembershipStatus: strPtr("active")},
		{MembershipStatus: strPtr("garbage")},
		{Membership: &Membership{}},
		endingOn("bogus"),
		endingOn("2025-01-01"),
		endingOn("2024-01-01"),
		endingOn("2030-01-01"),
	}

	got := Summarize(members, today)
	assert.Equal(t, len(members), got.Total)
	assert.Equal(t, got.Total, got.Active+got.Expired+got.Expiring+got.Inactive)
	assert.Equal(t, Summary{}, Summarize(nil, today))
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	st, ok := ParseStatus(" Expiring ")
	assert.True(t, ok)
	assert.Equal(t, StatusExpiring, st)

	_, ok = ParseStatus("unknown")
	assert.False(t, ok)
}

func TestLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Active", Label(Result{Status: StatusActive}))
	assert.Equal(t, "Expired", Label(Result{Status: StatusExpired, DaysRemaining: intPtr(0)}))
	assert.Equal(t, "Inactive", Label(Result{Status: StatusInactive}))
	assert.Equal(t, "Expiring Soon · 3 day(s) left", Label(Result{Status: StatusExpiring, DaysRemaining: intPtr(3)}))
	assert.Equal(t, "Unknown", Label(Result{Status: Status("paused")}))
}

func TestParseEndDate(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"2025-02-10",
		"2025-02-10T00:00:00.000Z",
		"2025-02-10T18:30:00+05:30",
		"2025-02-10 08:00:00",
		"2025-02-10T10:00Z",
		"2025-02-10T10:00+05:30",
		"2025-02-10T10:00:00+0530",
		"2025-02-10T10:00:00.250-0100",
		"2025/02/10",
		"2025/2/10",
		"02/10/2025",
		"2/10/2025",
		"Mon, 10 Feb 2025 00:00:00 GMT",
		"Mon, 10 Feb 2025 08:00:00 +0000",
		"Mon Feb 10 2025 10:00:00 GMT+0530 (India Standard Time)",
		"February 10, 2025",
		"Feb 10, 2025",
		"Feb 10 2025",
		"10 February 2025",
		"10 Feb 2025",
		"  2025-02-10  ",
	} {
		got, ok := parseEndDate(strPtr(raw), time.UTC)
		require.True(t, ok, raw)
		y, m, d := got.Date()
		assert.Equal(t, []int{2025, 2, 10}, []int{y, int(m), d}, raw)
	}
	for _, raw := range []string{"", "   ", "tomorrow", "2025-13-40", "10.02.2025"} {
		_, ok := parseEndDate(strPtr(raw), time.UTC)
		assert.False(t, ok, raw)
	}
	_, ok := parseEndDate(nil, time.UTC)
	assert.False(t, ok)
}

func TestDerive_AcceptsCommonDateForms(t *testing.T) {
	t.Parallel()

	today := dayOf(t, "2025-01-01")
	for _, raw := range []string{
		"2025-01-05T10:00Z",
		"2025/01/05",
		"Sun, 05 Jan 2025 00:00:00 GMT",
		"January 5, 2025",
		"2025-01-05T10:00:00+0530",
		"Sun Jan 05 2025 10:00:00 GMT+0530 (India Standard Time)",
	} {
		assert.Equal(t, Result{Status: StatusExpiring, DaysRemaining: intPtr(4)}, Derive(endingOn(raw), today), raw)
	}
}
