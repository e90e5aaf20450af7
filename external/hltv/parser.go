package hltv

import (
	"regexp"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/tourney-sheet-sync/internal/usecase"
	"golang.org/x/net/html"
)

const unknownMap = "?"

var (
	matchIDRegex = regexp.MustCompile(`matches/(\d+)`)
	teamIDRegex  = regexp.MustCompile(`team/(\d+)`)

	errUnexpectedMarkup = crerr.New("unexpected hltv markup")
)

// parseUpcoming reads the scheduled matches of the first lookaheadDays day
// groups of the matches page.
func parseUpcoming(doc *html.Node, lookaheadDays int) ([]usecase.UpcomingRecord, error) {
	groups := findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attr(n, "data-zonedgrouping-headline-classes") == "standard-headline"
	})
	if lookaheadDays > 0 && len(groups) > lookaheadDays {
		groups = groups[:lookaheadDays]
	}

	var out []usecase.UpcomingRecord
	for _, group := range groups {
		for _, day := range findAll(group, element("div", "match-day")) {
			for _, anchor := range findAll(day, element("a")) {
				id, ok := idFromHref(matchIDRegex, attr(anchor, "href"))
				if !ok {
					continue
				}

				ts, err := strconv.ParseInt(strings.TrimSpace(attr(anchor, "data-zonedgrouping-entry-unix")), 10, 64)
				if err != nil {
					return nil, crerr.Wrapf(errUnexpectedMarkup, "upcoming match %d: timestamp %q", id, attr(anchor, "data-zonedgrouping-entry-unix"))
				}

				record := usecase.UpcomingRecord{MatchID: id, ScheduledAt: ts, Map: unknownMap}
				var teams []string
				for _, div := range findAll(anchor, element("div")) {
					classes := classList(div)
					if len(classes) == 0 {
						continue
					}
					switch classes[0] {
					case "team":
						teams = append(teams, text(div))
					case "map-text":
						record.Map = text(div)
					}
				}
				if len(teams) < 2 {
					return nil, crerr.Wrapf(errUnexpectedMarkup, "upcoming match %d: found %d team names", id, len(teams))
				}
				record.Team1, record.Team2 = teams[0], teams[1]
				out = append(out, record)
			}
		}
	}
	return out, nil
}

// parseLive reads the live scoreboards of the matches page.
func parseLive(doc *html.Node) ([]usecase.LiveRecord, error) {
	container := findFirst(doc, element("div", "live-matches"))
	if container == nil {
		return nil, nil
	}

	liveMatches := findAll(container, func(n *html.Node) bool {
		return element("div")(n) && strings.TrimSpace(attr(n, "class")) == "live-match"
	})

	out := make([]usecase.LiveRecord, 0, len(liveMatches))
	for _, liveMatch := range liveMatches {
		table := findFirst(findFirst(liveMatch, element("a")), element("table"))
		if table == nil {
			return nil, crerr.Wrap(errUnexpectedMarkup, "live match without scoreboard")
		}

		rawID := attr(table, "data-livescore-match")
		id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
		if err != nil {
			return nil, crerr.Wrapf(errUnexpectedMarkup, "live match id %q", rawID)
		}

		record := usecase.LiveRecord{MatchID: id, Map: unknownMap}
		mapCells := findAll(table, element("td", "map"))
		singleMap := strings.Contains(text(findFirst(table, element("td", "bestof"))), "1")
		switch {
		case singleMap && len(mapCells) > 0:
			record.Map = strings.ToLower(text(mapCells[0]))
		case !singleMap && len(mapCells) > 0:
			record.Map = "bo" + strconv.Itoa(len(mapCells))
		}

		var teams []string
		for _, span := range findAll(table, element("span", "team-name")) {
			teams = append(teams, text(span))
		}
		if len(teams) < 2 {
			return nil, crerr.Wrapf(errUnexpectedMarkup, "live match %d: found %d team names", id, len(teams))
		}
		record.Team1, record.Team2 = teams[0], teams[1]

		scoreClass := "total"
		if singleMap {
			scoreClass = "livescore"
		}
		var scores []int
		for _, row := range findAll(table, element("tr")) {
			if hasAttr(row, "class") {
				continue
			}
			cell := findFirst(row, element("td", scoreClass))
			if cell == nil {
				continue
			}
			scores = append(scores, atoiOrZero(text(findFirst(cell, element("span")))))
		}
		if len(scores) < 2 {
			return nil, crerr.Wrapf(errUnexpectedMarkup, "live match %d: found %d score rows", id, len(scores))
		}
		record.Score1, record.Score2 = scores[0], scores[1]
		out = append(out, record)
	}
	return out, nil
}

// parseResults reads the finished matches of the results page.
func parseResults(doc *html.Node) ([]usecase.ResultRecord, error) {
	var out []usecase.ResultRecord
	for _, result := range findAll(doc, element("div", "result-con")) {
		anchor := findFirst(result, element("a"))
		id, ok := idFromHref(matchIDRegex, attr(anchor, "href"))
		if !ok {
			return nil, crerr.Wrapf(errUnexpectedMarkup, "result link %q", attr(anchor, "href"))
		}

		stamp := findFirst(findFirst(anchor, element("td", "date-cell")), func(n *html.Node) bool {
			return element("span")(n) && hasAttr(n, "data-unix")
		})
		ts, err := strconv.ParseInt(strings.TrimSpace(attr(stamp, "data-unix")), 10, 64)
		if err != nil {
			return nil, crerr.Wrapf(errUnexpectedMarkup, "result %d: timestamp %q", id, attr(stamp, "data-unix"))
		}

		var teams []string
		for _, cell := range findAll(anchor, element("td", "team-cell")) {
			line := findFirst(cell, element("div", "line-align"))
			teams = append(teams, text(findFirst(line, element("div"))))
		}
		if len(teams) < 2 {
			return nil, crerr.Wrapf(errUnexpectedMarkup, "result %d: found %d team names", id, len(teams))
		}

		var scores []int
		for _, span := range findAll(findFirst(anchor, element("td", "result-score")), element("span")) {
			score, err := strconv.Atoi(text(span))
			if err != nil {
				return nil, crerr.Wrapf(errUnexpectedMarkup, "result %d: score %q", id, text(span))
			}
			scores = append(scores, score)
		}
		if len(scores) < 2 {
			return nil, crerr.Wrapf(errUnexpectedMarkup, "result %d: found %d scores", id, len(scores))
		}

		out = append(out, usecase.ResultRecord{
			MatchID:     id,
			ScheduledAt: ts,
			Team1:       teams[0],
			Team2:       teams[1],
			Score1:      scores[0],
			Score2:      scores[1],
			Map:         text(findFirst(anchor, element("div", "map-text"))),
		})
	}
	return out, nil
}

// teamsOverviewLink returns the absolute URL of the event's team overview.
func teamsOverviewLink(doc *html.Node, baseURL string) string {
	href := strings.TrimSpace(attr(findFirst(doc, element("a", "event-nav", "inactive")), "href"))
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return baseURL + href
}

// parseTeams reads the participants from the group tables of the team
// overview. A team listed in several groups is reported once.
func parseTeams(doc *html.Node) ([]usecase.TeamRecord, error) {
	container := findFirst(doc, element("div", "groups-container"))
	if container == nil {
		return nil, nil
	}

	seen := make(map[int64]struct{})
	var out []usecase.TeamRecord
	for _, table := range findAll(container, element("table")) {
		for _, row := range findAll(table, element("tr")) {
			if !hasAttr(row, "class") {
				continue
			}
			anchor := findFirst(row, element("a"))
			id, ok := idFromHref(teamIDRegex, attr(anchor, "href"))
			if !ok {
				return nil, crerr.Wrapf(errUnexpectedMarkup, "team link %q", attr(anchor, "href"))
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, usecase.TeamRecord{TeamID: id, Name: text(anchor)})
		}
	}
	return out, nil
}

func idFromHref(re *regexp.Regexp, href string) (int64, bool) {
	match := re.FindStringSubmatch(href)
	if len(match) < 2 {
		return 0, false
	}
	id, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func atoiOrZero(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return v
}
