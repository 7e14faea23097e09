package devapi

import (
	"encoding/csv"
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/frontdesk-hq/frontdesk/internal/models"
)

const maxQuestionLength = 512

var (
	questionMarker  = regexp.MustCompile(`(?im)^\s*Q:\s*`)
	answerPrefix    = regexp.MustCompile(`(?i)^A:\s*`)
	keywordPrefix   = regexp.MustCompile(`(?i)^K:\s*`)
	keywordSplitter = regexp.MustCompile(`[;,]`)
	blankLines      = regexp.MustCompile(`\n\s*\n+`)
)

// ParseFAQCSV reads rows with question, answer and optional keywords
// columns. Rows missing a question or answer are skipped.
func ParseFAQCSV(r io.Reader) ([]models.FAQInput, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var faqs []models.FAQInput
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		question := field(record, "question")
		answer := field(record, "answer")
		if question == "" || answer == "" {
			continue
		}
		faqs = append(faqs, models.FAQInput{
			Question: truncate(question, maxQuestionLength),
			Answer:   answer,
			Keywords: splitKeywords(field(record, "keywords")),
		})
	}
	return faqs, nil
}

// ParseFAQText reads blocks that start with "Q:", continue with "A:" and may
// carry a "K:" keyword line:
//
//	Q: What are your opening hours?
//	A: We are open 9am to 9pm every day.
//	K: hours, opening, time
//
// Text with no such blocks falls back to paragraphs: the first line is the
// question and the rest is the answer.
func ParseFAQText(content string) []models.FAQInput {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var faqs []models.FAQInput
	for _, block := range questionMarker.Split(content, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if faq, ok := parseTextBlock(block); ok {
			faqs = append(faqs, faq)
		}
	}
	if len(faqs) > 0 || strings.TrimSpace(content) == "" {
		return faqs
	}

	for _, paragraph := range blankLines.Split(content, -1) {
		var lines []string
		for _, line := range strings.Split(strings.TrimSpace(paragraph), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) < 2 {
			continue
		}
		faqs = append(faqs, models.FAQInput{
			Question: truncate(lines[0], maxQuestionLength),
			Answer:   strings.Join(lines[1:], "\n"),
			Keywords: []string{},
		})
	}
	return faqs
}

func parseTextBlock(block string) (models.FAQInput, bool) {
	var question, answer []string
	keywords := []string{}
	inAnswer := false

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case answerPrefix.MatchString(line):
			inAnswer = true
			answer = append(answer, strings.TrimSpace(answerPrefix.ReplaceAllString(line, "")))
		case keywordPrefix.MatchString(line):
			keywords = append(keywords, splitKeywords(keywordPrefix.ReplaceAllString(line, ""))...)
		case inAnswer:
			answer = append(answer, line)
		default:
			question = append(question, line)
		}
	}

	q := strings.TrimSpace(strings.Join(question, " "))
	a := strings.TrimSpace(strings.Join(answer, "\n"))
	if q == "" || a == "" {
		return models.FAQInput{}, false
	}
	return models.FAQInput{Question: truncate(q, maxQuestionLength), Answer: a, Keywords: keywords}, true
}

func splitKeywords(raw string) []string {
	keywords := []string{}
	for _, keyword := range keywordSplitter.Split(raw, -1) {
		if keyword = strings.TrimSpace(keyword); keyword != "" {
			keywords = append(keywords, keyword)
		}
	}
	return keywords
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max])
}
