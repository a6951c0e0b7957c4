// Package moderation provides the content-acceptability gate that runs
// before a comment is persisted. The gate is an interface so the local
// keyword scan can be swapped for a hosted moderation API without touching
// callers.
package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable indicates the moderation provider could not produce a
// verdict. Callers must treat this as transient and never fall back to
// accepting (or rejecting) the content by default.
var ErrUnavailable = errors.New("moderation provider unavailable")

// Gate checks whether user-submitted text is acceptable. A false result is a
// normal verdict, not an error.
type Gate interface {
	Review(ctx context.Context, text string) (bool, error)
}

// defaultDenyList is the Spanish-language keyword set carried over from the
// store's community guidelines, including common evasion spellings.
var defaultDenyList = []string{
	"estúpido", "idiota", "odio", "muere", "spam", "casino", "mierda", "puta",
	"malparido", "gonorrea", "hijo de puta", "tonto", "bobo", "falso", "estafa",
	"cabron", "cabrón", "pendejo", "verga", "culo", "concha", "gilipollas",
	"joder", "imbecil", "imbécil",
	"pdjo", "pndj", "pndx", "pndho",
	"cbrn", "kbron", "cbr0n",
	"stpd", "tupido",
	"mlprd", "mparido",
	"hdp", "hijuep", "shdp",
	"vrg", "vrg4",
	"mrda",
	"ctm", "chngtm",
	"cdtm", "conchtm",
	"gnrr", "glplls",
	"nmms",
	"m4ldit0", "maldito", "basura", "asqueroso", "kbrn",
}

// KeywordGate rejects text containing any deny-listed keyword as a
// case-insensitive substring. It never fails: the verdict is always local.
type KeywordGate struct {
	denyList []string
}

// NewKeywordGate builds a keyword gate. With no words given it uses the
// default deny list.
func NewKeywordGate(words ...string) *KeywordGate {
	if len(words) == 0 {
		words = defaultDenyList
	}
	lowered := make([]string, len(words))
	for i, w := range words {
		lowered[i] = strings.ToLower(w)
	}
	return &KeywordGate{denyList: lowered}
}

// Review scans the text against the deny list.
func (g *KeywordGate) Review(_ context.Context, text string) (bool, error) {
	lower := strings.ToLower(text)
	for _, word := range g.denyList {
		if strings.Contains(lower, word) {
			return false, nil
		}
	}
	return true, nil
}

// RemoteGate asks an external moderation provider for a verdict. Any
// transport failure, timeout, or non-2xx response is ErrUnavailable.
type RemoteGate struct {
	endpoint string
	client   *http.Client
}

// NewRemoteGate builds a remote gate against the given endpoint.
func NewRemoteGate(endpoint string, timeout time.Duration) *RemoteGate {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RemoteGate{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Review posts the text to the provider and reads its flagged verdict.
func (g *RemoteGate) Review(ctx context.Context, text string) (bool, error) {
	payload, err := json.Marshal(map[string]string{"input": text})
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("%w: provider returned %d", ErrUnavailable, resp.StatusCode)
	}

	var verdict struct {
		Flagged bool `json:"flagged"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return !verdict.Flagged, nil
}
