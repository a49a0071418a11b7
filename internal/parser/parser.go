// Package parser extracts flashcards from the markdown deck format:
// "Q:" starts a question block, "A:" the answer, "---" separates cards.
// Blocks may span multiple lines.
package parser

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/conorfennell/spacedeck/internal/domain"
)

const (
	questionPrefix = "Q:"
	answerPrefix   = "A:"
)

type state int

const (
	seeking state = iota
	readingQuestion
	readingAnswer
)

// ParseFile reads the file at path and extracts all cards, tagging each
// with topic.
func ParseFile(path, topic string) ([]domain.Card, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file, topic)
}

// Parse reads from r and extracts all cards, tagging each with topic.
// Cards without a question are dropped.
func Parse(r io.Reader, topic string) ([]domain.Card, error) {
	scanner := bufio.NewScanner(r)
	var cards []domain.Card
	var current domain.Card
	var block []string
	currentState := seeking

	flushBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.TrimSpace(strings.Join(block, "\n"))
		switch currentState {
		case readingQuestion:
			current.Question = content
		case readingAnswer:
			current.Answer = content
		}
		block = nil
	}

	finishCard := func() {
		flushBlock()
		if current.Question != "" {
			current.Topic = topic
			cards = append(cards, current)
		}
		current = domain.Card{}
		currentState = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()

		isQ := strings.HasPrefix(line, questionPrefix)
		isA := strings.HasPrefix(line, answerPrefix)

		switch {
		case line == "---":
			finishCard()
		case isQ:
			// A new question always starts a new card.
			if currentState != seeking {
				finishCard()
			}
			currentState = readingQuestion
			block = append(block, trimPrefix(line, questionPrefix))
		case isA:
			flushBlock()
			currentState = readingAnswer
			block = append(block, trimPrefix(line, answerPrefix))
		case currentState != seeking:
			block = append(block, line)
		}
	}

	finishCard() // the last card in the file has no trailing separator

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cards, nil
}

func trimPrefix(line, prefix string) string {
	content := line[len(prefix):]
	return strings.TrimPrefix(content, " ")
}
