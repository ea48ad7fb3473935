package protocol

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/atmouse-/gensokyoradio/internal/domain"
)

const (
	pingMessage    = "ping"
	welcomePrefix  = "welcome:"
	welcomeMessage = "welcome"
)

// parseFunc is one fallible classification attempt.
type parseFunc func(raw string) (domain.Event, bool)

// parsers run in order; the first match wins.
var parsers = []parseFunc{
	parsePing,
	parseSongInfo,
	parseWelcomeText,
	parseWelcomeJSON,
}

// Classify turns a raw text frame into an event. It never fails: input that
// matches no known shape comes back as domain.Unknown.
func Classify(raw string) domain.Event {
	for _, parse := range parsers {
		if ev, ok := parse(raw); ok {
			return ev
		}
	}
	return domain.Unknown{Raw: raw}
}

func parsePing(raw string) (domain.Event, bool) {
	if raw != pingMessage {
		return nil, false
	}
	return domain.Ping{}, true
}

// songInfoWire uses pointers so missing or null keys can be told apart from
// zero values.
type songInfoWire struct {
	Title     *string `json:"title"`
	Artist    *string `json:"artist"`
	Album     *string `json:"album"`
	AlbumArt  *string `json:"albumart"`
	Remaining *uint32 `json:"remaining"`
}

func parseSongInfo(raw string) (domain.Event, bool) {
	var w songInfoWire
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, false
	}
	if w.Title == nil || w.Artist == nil || w.Album == nil || w.AlbumArt == nil || w.Remaining == nil {
		return nil, false
	}
	return domain.SongInfo{
		Title:     *w.Title,
		Artist:    *w.Artist,
		Album:     *w.Album,
		AlbumArt:  *w.AlbumArt,
		Remaining: *w.Remaining,
	}, true
}

func parseWelcomeText(raw string) (domain.Event, bool) {
	value, ok := strings.CutPrefix(raw, welcomePrefix)
	if !ok {
		return nil, false
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, false
	}
	return domain.Welcome{ID: id, Encoding: domain.WelcomeText}, true
}

type envelopeWire struct {
	Message string `json:"message"`
	ID      *int64 `json:"id"`
}

func parseWelcomeJSON(raw string) (domain.Event, bool) {
	var w envelopeWire
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, false
	}
	if w.Message != welcomeMessage || w.ID == nil {
		return nil, false
	}
	return domain.Welcome{ID: *w.ID, Encoding: domain.WelcomeJSON}, true
}
