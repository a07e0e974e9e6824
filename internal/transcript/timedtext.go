package transcript

import (
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"
)

// timedTextDoc covers both timed-text layouts YouTube serves:
//
//	<transcript><text start="1.2" dur="3.4">...</text></transcript>
//	<timedtext format="3"><body><p t="1200" d="3400">...</p></body></timedtext>
type timedTextDoc struct {
	XMLName xml.Name
	Texts   []legacyCue `xml:"text"`
	Body    struct {
		Paragraphs []paragraphCue `xml:"p"`
	} `xml:"body"`
}

type legacyCue struct {
	Start float64 `xml:"start,attr"`
	Dur   float64 `xml:"dur,attr"`
	Text  string  `xml:",chardata"`
}

type paragraphCue struct {
	StartMs int64  `xml:"t,attr"`
	DurMs   int64  `xml:"d,attr"`
	Text    string `xml:",chardata"`
	Spans   []struct {
		Text string `xml:",chardata"`
	} `xml:"s"`
}

func decodeTimedText(body []byte) ([]Segment, error) {
	var doc timedTextDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse timedtext: %w", err)
	}

	segments := make([]Segment, 0, len(doc.Texts)+len(doc.Body.Paragraphs))
	for _, c := range doc.Texts {
		text := cleanCue(c.Text)
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Text:     text,
			Start:    seconds(c.Start),
			Duration: seconds(c.Dur),
		})
	}

	for _, p := range doc.Body.Paragraphs {
		raw := p.Text
		if len(p.Spans) > 0 {
			parts := make([]string, 0, len(p.Spans))
			for _, s := range p.Spans {
				parts = append(parts, s.Text)
			}
			raw = strings.Join(parts, " ")
		}
		text := cleanCue(raw)
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Text:     text,
			Start:    time.Duration(p.StartMs) * time.Millisecond,
			Duration: time.Duration(p.DurMs) * time.Millisecond,
		})
	}
	return segments, nil
}

// cleanCue undoes the second layer of HTML escaping YouTube applies to cue
// text and collapses whitespace, including the line breaks inside cues.
func cleanCue(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}
