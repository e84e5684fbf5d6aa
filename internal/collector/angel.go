package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"TradePlanner/internal/auth"
	"TradePlanner/internal/model"
)

const (
	searchScripPath  = "/rest/secure/angelbroking/order/v1/searchScrip"
	candleDataPath   = "/rest/secure/angelbroking/historical/v1/getCandleData"
	candleInterval   = "ONE_DAY"
	candleTimeLayout = "2006-01-02 15:04"
)

// AngelFetcher implements Fetcher against the Angel One SmartAPI.
type AngelFetcher struct {
	BaseURL  string
	Exchange string
	Client   *http.Client

	authc   *auth.Client
	session *auth.Session
	limiter *rate.Limiter
}

// NewAngelFetcher creates a fetcher bound to an authenticated session.
// The limiter paces every remote call; nil disables pacing.
func NewAngelFetcher(baseURL, exchange string, authc *auth.Client, session *auth.Session, limiter *rate.Limiter) *AngelFetcher {
	return &AngelFetcher{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Exchange: exchange,
		Client:   &http.Client{Timeout: 30 * time.Second},
		authc:    authc,
		session:  session,
		limiter:  limiter,
	}
}

func (f *AngelFetcher) Name() string { return "angelone" }

// apiEnvelope is the common SmartAPI response wrapper.
type apiEnvelope struct {
	Status    bool            `json:"status"`
	Message   string          `json:"message"`
	ErrorCode string          `json:"errorcode"`
	Data      json.RawMessage `json:"data"`
}

// searchResult is one instrument row from searchScrip.
type searchResult struct {
	Exchange      string `json:"exchange"`
	TradingSymbol string `json:"tradingsymbol"`
	SymbolToken   string `json:"symboltoken"`
}

// ResolveToken searches the exchange and picks the instrument whose trading
// symbol is the equity series of the requested symbol (SYMBOL-EQ).
func (f *AngelFetcher) ResolveToken(symbol string) (string, error) {
	env, err := f.post(searchScripPath, map[string]string{
		"exchange":    f.Exchange,
		"searchscrip": symbol,
	})
	if err != nil {
		return "", fmt.Errorf("search scrip %s: %w", symbol, err)
	}
	if !env.Status {
		return "", fmt.Errorf("search scrip %s: %s (errorcode=%s)", symbol, env.Message, env.ErrorCode)
	}
	var results []searchResult
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &results); err != nil {
			return "", fmt.Errorf("search scrip %s: decode: %w", symbol, err)
		}
	}
	want := symbol + "-EQ"
	for _, r := range results {
		if r.TradingSymbol == want {
			return r.SymbolToken, nil
		}
	}
	return "", fmt.Errorf("%s: %w", symbol, ErrTokenNotFound)
}

// FetchDailyBars requests ONE_DAY candles for the trailing window ending
// now. An empty data payload is a valid empty history, not an error.
func (f *AngelFetcher) FetchDailyBars(symbol, token string, days int) ([]model.OHLCV, error) {
	now := time.Now()
	env, err := f.post(candleDataPath, map[string]string{
		"exchange":    f.Exchange,
		"symboltoken": token,
		"interval":    candleInterval,
		"fromdate":    now.AddDate(0, 0, -days).Format(candleTimeLayout),
		"todate":      now.Format(candleTimeLayout),
	})
	if err != nil {
		return nil, fmt.Errorf("candles %s: %w", symbol, err)
	}
	if !env.Status {
		return nil, fmt.Errorf("candles %s: %s (errorcode=%s)", symbol, env.Message, env.ErrorCode)
	}
	bars, err := parseCandleRows(env.Data)
	if err != nil {
		return nil, fmt.Errorf("candles %s: %w", symbol, err)
	}
	return bars, nil
}

// post sends a SmartAPI call. When the broker reports an expired session it
// re-logins once and retries the same call.
func (f *AngelFetcher) post(path string, payload map[string]string) (*apiEnvelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	env, err := f.doPost(path, body)
	if err != nil {
		return nil, err
	}
	if !env.Status && auth.IsSessionError(env.ErrorCode) {
		log.Printf("[WARN] session expired (%s), re-authenticating", env.ErrorCode)
		sess, lerr := f.authc.Login()
		if lerr != nil {
			return nil, fmt.Errorf("re-login: %w", lerr)
		}
		f.session = sess
		return f.doPost(path, body)
	}
	return env, nil
}

func (f *AngelFetcher) doPost(path string, body []byte) (*apiEnvelope, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(context.Background()); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequest(http.MethodPost, f.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	auth.SetHeaders(req, f.authc.Creds.APIKey, f.session.AuthToken)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("angel request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("angel read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("angel: status %d, body: %s", resp.StatusCode, string(raw))
	}
	var env apiEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("angel decode: %w", err)
	}
	return &env, nil
}

// parseCandleRows decodes the positional candle rows
// [timestamp, open, high, low, close, volume] returned by getCandleData.
func parseCandleRows(data json.RawMessage) ([]model.OHLCV, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var rows [][]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode candle rows: %w", err)
	}
	bars := make([]model.OHLCV, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			continue // malformed row
		}
		ts, _ := row[0].(string)
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			continue
		}
		bars = append(bars, model.OHLCV{
			Time:   t,
			Open:   toFloat(row[1]),
			High:   toFloat(row[2]),
			Low:    toFloat(row[3]),
			Close:  toFloat(row[4]),
			Volume: toFloat(row[5]),
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// toFloat tolerates the mixed number/string cells seen in candle rows.
func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
