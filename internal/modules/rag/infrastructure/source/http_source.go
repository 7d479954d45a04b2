package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	appconfig "OpsLink/internal/config"
	domain "OpsLink/internal/modules/rag/domain/source"
	"OpsLink/pkg/zlog"

	"go.uber.org/zap"
)

const defaultSourceTimeout = 10 * time.Second

// httpItem 外部内容平台的条目格式
type httpItem struct {
	Id           string     `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	URL          string     `json:"url"`
	LastModified *time.Time `json:"last_modified"`
}

type httpSearchRespond struct {
	Results []httpItem `json:"results"`
}

// httpSource 外部内容平台客户端（docs / wiki 共用同一种 REST 形状）
//
// 凭证或地址缺失时 disabled=true：Search 恒返回空结果，不视为错误。
type httpSource struct {
	name     string
	baseURL  string
	apiKey   string
	client   *http.Client
	disabled bool
}

func newHTTPSource(name string, cfg appconfig.RagSourceConfig, resolver func(string) (string, bool)) domain.Source {
	timeout := defaultSourceTimeout
	if cfg.TimeoutSecs > 0 {
		timeout = time.Duration(cfg.TimeoutSecs) * time.Second
	}

	s := &httpSource{
		name:    name,
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		client:  &http.Client{Timeout: timeout},
	}

	if s.baseURL == "" {
		s.disabled = true
		return s
	}
	key, ok := resolver(cfg.APIKeyEnv)
	if !ok {
		zlog.Info("rag source has no credentials, disabled", zap.String("source", name))
		s.disabled = true
		return s
	}
	s.apiKey = key
	return s
}

// NewDocsSource 外部文档平台源
func NewDocsSource(cfg appconfig.RagSourceConfig, resolver func(string) (string, bool)) domain.Source {
	return newHTTPSource(domain.SourceDocs, cfg, resolver)
}

// NewWikiSource 外部知识库平台源
func NewWikiSource(cfg appconfig.RagSourceConfig, resolver func(string) (string, bool)) domain.Source {
	return newHTTPSource(domain.SourceWiki, cfg, resolver)
}

func (s *httpSource) Name() string {
	return s.name
}

func (s *httpSource) Search(ctx context.Context, companyId, query string) ([]domain.Item, error) {
	if s.disabled {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/search?q=%s&company=%s",
		s.baseURL, url.QueryEscape(query), url.QueryEscape(companyId))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s source returned status %d", s.name, resp.StatusCode)
	}

	var body httpSearchRespond
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	out := make([]domain.Item, 0, len(body.Results))
	for _, it := range body.Results {
		out = append(out, domain.Item{
			Id:           it.Id,
			Title:        it.Title,
			Content:      it.Content,
			URL:          it.URL,
			LastModified: it.LastModified,
		})
	}
	return out, nil
}
