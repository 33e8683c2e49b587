package analyzer

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"
	"github.com/go-ego/gse"
	"github.com/weibolens/weibolens/internal/config"
)

var (
	urlPattern     = regexp.MustCompile(`https?://[A-Za-z0-9./?=&%_#~!*+,;:@$()\[\]-]+`)
	mentionPattern = regexp.MustCompile(`@[\p{Han}A-Za-z0-9_-]+`)
	topicPattern   = regexp.MustCompile(`#([^#]+)#`)
)

// Tokenizer turns raw post text into cleaned word tokens: URLs, mentions
// and platform markup removed, words segmented (the corpus is not
// whitespace-delimited), lowercased, stopwords and short tokens dropped.
// Tokenize is deterministic: identical text yields identical tokens.
type Tokenizer struct {
	seg       gse.Segmenter
	stopwords map[string]struct{}
	markup    *ahocorasick.Matcher
	minRunes  int
}

func NewTokenizer(cfg config.AnalysisConfig) (*Tokenizer, error) {
	t := &Tokenizer{
		stopwords: make(map[string]struct{}),
		markup:    ahocorasick.NewStringMatcher(markupPhrases),
		minRunes:  cfg.MinTokenRunes,
	}
	if err := t.seg.LoadDict(); err != nil {
		return nil, fmt.Errorf("load segmentation dictionary: %w", err)
	}

	words := defaultStopwords
	if cfg.StopwordFile != "" {
		loaded, err := loadStopwordFile(cfg.StopwordFile)
		if err != nil {
			return nil, err
		}
		words = loaded
	}
	for _, w := range words {
		t.stopwords[w] = struct{}{}
	}
	return t, nil
}

func (t *Tokenizer) Tokenize(text string) []string {
	cleaned := t.clean(text)
	if cleaned == "" {
		return nil
	}

	var tokens []string
	for _, word := range t.seg.Cut(cleaned, true) {
		word = strings.ToLower(strings.TrimSpace(word))
		if utf8.RuneCountInString(word) < t.minRunes {
			continue
		}
		if !hasWordRune(word) {
			continue
		}
		if _, stop := t.stopwords[word]; stop {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

func (t *Tokenizer) clean(text string) string {
	text = urlPattern.ReplaceAllString(text, " ")
	text = mentionPattern.ReplaceAllString(text, " ")
	// Keep topic words, drop the #...# markers around them.
	text = topicPattern.ReplaceAllString(text, " $1 ")

	for _, idx := range t.markup.Match([]byte(text)) {
		text = strings.ReplaceAll(text, markupPhrases[idx], " ")
	}
	return strings.TrimSpace(text)
}

// hasWordRune rejects tokens made only of punctuation, digits or space.
func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) || unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func loadStopwordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stopword file: %w", err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		w := strings.TrimSpace(scanner.Text())
		if w != "" && !strings.HasPrefix(w, "#") {
			words = append(words, w)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stopword file: %w", err)
	}
	return words, nil
}
