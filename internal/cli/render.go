// Package cli renders catalog and liked-item views for the terminal.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/movietracker/internal/domain"
	"github.com/mmcdole/movietracker/internal/liked"
)

const titleWidth = 48

func kindBadge(isFilm bool) string {
	if isFilm {
		return FilmBadge.Render("film")
	}
	return SeriesBadge.Render("tv")
}

// RenderRecords renders a numbered list of catalog records under a header
func RenderRecords(header string, records []domain.CatalogRecord) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(header))
	b.WriteString("\n")

	if len(records) == 0 {
		b.WriteString(DimStyle.Render("No results"))
		b.WriteString("\n")
		return b.String()
	}

	for i, rec := range records {
		fmt.Fprintf(&b, "%s %s %s %s %s\n",
			DimStyle.Render(fmt.Sprintf("%3d.", i+1)),
			kindBadge(rec.IsFilm),
			TitleStyle.Render(Truncate(rec.Title, titleWidth)),
			SubtitleStyle.Render("("+rec.Subtitle+")"),
			DimStyle.Render(fmt.Sprintf("#%d", rec.ExternalID)),
		)
	}
	return b.String()
}

// RenderLiked renders the liked set, newest first
func RenderLiked(items []domain.LikedEntity, now time.Time) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("Liked (%d)", len(items))))
	b.WriteString("\n")

	if len(items) == 0 {
		b.WriteString(DimStyle.Render("Nothing liked yet"))
		b.WriteString("\n")
		return b.String()
	}

	for _, e := range items {
		fmt.Fprintf(&b, "%s %s %s %s\n",
			kindBadge(e.IsFilm),
			TitleStyle.Render(Truncate(e.Title, titleWidth)),
			SubtitleStyle.Render("("+e.Subtitle+")"),
			DimStyle.Render("liked "+formatAge(now.Sub(e.CreatedAt))),
		)
	}
	return b.String()
}

// RenderSuggestions renders ranked liked-item matches with matched runes highlighted
func RenderSuggestions(suggestions []liked.Suggestion) string {
	if len(suggestions) == 0 {
		return DimStyle.Render("No matches") + "\n"
	}

	var b strings.Builder
	for _, s := range suggestions {
		fmt.Fprintf(&b, "%s %s %s\n",
			kindBadge(s.Item.IsFilm),
			highlightMatches(s.Item.Title, s.MatchedIndexes),
			SubtitleStyle.Render("("+s.Item.Subtitle+")"),
		)
	}
	return b.String()
}

// highlightMatches renders text with the runes starting at the matched byte offsets highlighted
func highlightMatches(text string, matchedIndexes []int) string {
	if len(matchedIndexes) == 0 {
		return TitleStyle.Render(text)
	}

	matchSet := make(map[int]bool, len(matchedIndexes))
	for _, idx := range matchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder
	for i, r := range text {
		if matchSet[i] {
			b.WriteString(MatchHighlightStyle.Render(string(r)))
		} else {
			b.WriteString(TitleStyle.Render(string(r)))
		}
	}
	return b.String()
}

// RenderDetails renders the detail view of a movie or series. liked marks
// items already in the liked set.
func RenderDetails(d *domain.Details, liked bool, width int) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(Truncate(d.Title, width)))
	b.WriteString("\n")
	if d.Tagline != "" {
		b.WriteString(SubtitleStyle.Render(Truncate(d.Tagline, width)))
		b.WriteString("\n")
	}

	// Meta line: Year · Runtime or seasons · Status
	var metaParts []string
	if y := d.Year(); y != "" {
		metaParts = append(metaParts, y)
	}
	if d.Kind == domain.KindSeries {
		if d.SeasonCount > 0 {
			metaParts = append(metaParts, fmt.Sprintf("%d seasons, %d episodes", d.SeasonCount, d.EpisodeCount))
		}
	} else if rt := d.FormattedRuntime(); rt != "" {
		metaParts = append(metaParts, rt)
	}
	if d.Status != "" {
		metaParts = append(metaParts, d.Status)
	}
	b.WriteString(kindBadge(d.Kind.IsFilm()))
	if liked {
		b.WriteString(" ")
		b.WriteString(SuccessStyle.Render("♥ liked"))
	}
	if len(metaParts) > 0 {
		b.WriteString(" ")
		b.WriteString(DimStyle.Render(strings.Join(metaParts, " · ")))
	}
	b.WriteString("\n")

	if d.VoteCount > 0 {
		ratingText := fmt.Sprintf("★ %.1f (%d votes)", d.VoteAverage, d.VoteCount)
		var ratingStyle lipgloss.Style
		switch {
		case d.VoteAverage >= 7:
			ratingStyle = lipgloss.NewStyle().Foreground(Green)
		case d.VoteAverage >= 5:
			ratingStyle = lipgloss.NewStyle().Foreground(Amber)
		default:
			ratingStyle = lipgloss.NewStyle().Foreground(Red)
		}
		b.WriteString(ratingStyle.Render(ratingText))
		b.WriteString("\n")
	}

	if len(d.Genres) > 0 {
		b.WriteString(AccentStyle.Render(strings.Join(d.Genres, ", ")))
		b.WriteString("\n")
	}

	if d.Overview != "" {
		b.WriteString("\n")
		bodyWidth := width
		if bodyWidth > 80 {
			bodyWidth = 80
		}
		b.WriteString(SubtitleStyle.Render(wordWrap(d.Overview, bodyWidth)))
		b.WriteString("\n")
	}

	if d.PosterURL != "" {
		b.WriteString("\n")
		b.WriteString(DimStyle.Render(d.PosterURL))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderOffline explains an OfflineNoCacheError to the user
func RenderOffline(err *domain.OfflineNoCacheError) string {
	return ErrorStyle.Render("Offline") + " " +
		SubtitleStyle.Render(fmt.Sprintf("no cached data for %s and the catalog is unreachable", err.Key)) + "\n"
}

// RenderToggle describes the outcome of a toggle and its undo window
func RenderToggle(t *liked.Toggle, now time.Time) string {
	verb := SuccessStyle.Render("Liked")
	if t.Applied == domain.ToggleRemoved {
		verb = WarningStyle.Render("Unliked")
	}
	remaining := t.ExpiresAt().Sub(now).Round(time.Second)
	return fmt.Sprintf("%s %s %s\n",
		verb,
		TitleStyle.Render(t.Entity.Title),
		DimStyle.Render(fmt.Sprintf("(undo within %s)", remaining)),
	)
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// wordWrap wraps text at word boundaries
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
