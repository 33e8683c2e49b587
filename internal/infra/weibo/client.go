package weibo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/weibolens/weibolens/internal/config"
	"github.com/weibolens/weibolens/internal/domain/contracts"
	"github.com/weibolens/weibolens/internal/domain/model"
	pkg "github.com/weibolens/weibolens/pkg/logger"
)

const (
	cardTypePost  = 9
	cardTypeGroup = 11
)

var (
	topicPattern   = regexp.MustCompile(`#([^#]+)#`)
	mentionPattern = regexp.MustCompile(`@([\p{Han}A-Za-z0-9_-]+)`)
)

// Client fetches result pages from the m.weibo.cn container API.
// The cursor is the stringified page number; an empty cursor means page 1.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	cookie     string
	log        pkg.Logger
	now        func() time.Time
}

func NewClient(cfg config.WeiboConfig, log pkg.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		cookie:     cfg.Cookie,
		log:        log,
		now:        time.Now,
	}
}

type mblog struct {
	ID             string `json:"id"`
	Text           string `json:"text"`
	CreatedAt      string `json:"created_at"`
	Source         string `json:"source"`
	AttitudesCount int    `json:"attitudes_count"`
	CommentsCount  int    `json:"comments_count"`
	RepostsCount   int    `json:"reposts_count"`
	User           struct {
		ID         json.Number `json:"id"`
		ScreenName string      `json:"screen_name"`
	} `json:"user"`
}

type card struct {
	CardType  int    `json:"card_type"`
	Mblog     *mblog `json:"mblog"`
	CardGroup []card `json:"card_group"`
}

type indexResponse struct {
	Ok   int    `json:"ok"`
	Msg  string `json:"msg"`
	Data struct {
		Cards []card `json:"cards"`
	} `json:"data"`
}

func (c *Client) FetchPage(ctx context.Context, req model.CrawlRequest, cursor string) (*contracts.Page, error) {
	page := 1
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, fmt.Errorf("malformed cursor %q: %w", cursor, err)
		}
		page = n
	}

	u, err := c.buildURL(req, page)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	if c.cookie != "" {
		httpReq.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, transient("network", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, transient("http", fmt.Errorf("status %d", resp.StatusCode))
	}

	var raw indexResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, transient("decode", err)
	}
	// The platform answers ok != 1 both for empty result sets and for
	// undisclosed throttling; retrying is the only safe reading.
	if raw.Ok != 1 {
		return nil, transient("platform", fmt.Errorf("ok=%d msg=%q", raw.Ok, raw.Msg))
	}

	posts := c.collectPosts(raw.Data.Cards)
	c.log.Debug("Fetched page", "page", page, "cards", len(raw.Data.Cards), "posts", len(posts))

	return &contracts.Page{
		Posts:      posts,
		NextCursor: strconv.Itoa(page + 1),
		HasMore:    len(raw.Data.Cards) > 0,
	}, nil
}

func (c *Client) buildURL(req model.CrawlRequest, page int) (string, error) {
	params := url.Values{}
	switch {
	case req.Keyword != "":
		params.Set("containerid", "100103type=1&q="+req.Keyword)
		params.Set("page_type", "searchall")
	case req.UserID != "":
		params.Set("containerid", "230413"+req.UserID)
	default:
		return "", fmt.Errorf("request has neither keyword nor user_id")
	}
	params.Set("page", strconv.Itoa(page))
	return c.baseURL + "/api/container/getIndex?" + params.Encode(), nil
}

// collectPosts walks the card tree. Keyword searches nest post cards in
// card_type 11 groups; user timelines carry them at the top level.
func (c *Client) collectPosts(cards []card) []*model.Post {
	var posts []*model.Post
	for _, cd := range cards {
		switch cd.CardType {
		case cardTypePost:
			if cd.Mblog != nil {
				posts = append(posts, c.parseMblog(cd.Mblog))
			}
		case cardTypeGroup:
			posts = append(posts, c.collectPosts(cd.CardGroup)...)
		}
	}
	return posts
}

func (c *Client) parseMblog(m *mblog) *model.Post {
	text := stripHTML(m.Text)
	createdAt, valid := normalizeCreatedAt(m.CreatedAt, c.now())
	if !valid {
		c.log.Warn("Unparsable post timestamp", "id", m.ID, "created_at", m.CreatedAt)
	}
	return &model.Post{
		ID:             m.ID,
		AuthorID:       m.User.ID.String(),
		ScreenName:     m.User.ScreenName,
		Text:           text,
		Topics:         extractTopics(text),
		AtUsers:        extractAtUsers(text),
		CreatedAt:      createdAt,
		TimeValid:      valid,
		Source:         m.Source,
		AttitudesCount: m.AttitudesCount,
		CommentsCount:  m.CommentsCount,
		RepostsCount:   m.RepostsCount,
	}
}

// stripHTML flattens the mblog markup to its visible text.
func stripHTML(raw string) string {
	if !strings.Contains(raw, "<") {
		return strings.TrimSpace(raw)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(strings.Join(strings.Fields(doc.Text()), " "))
}

func extractTopics(text string) []string {
	var topics []string
	for _, m := range topicPattern.FindAllStringSubmatch(text, -1) {
		topics = append(topics, m[1])
	}
	return topics
}

func extractAtUsers(text string) []string {
	var users []string
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		users = append(users, m[1])
	}
	return users
}
