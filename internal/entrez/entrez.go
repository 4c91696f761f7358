// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package entrez queries NCBI E-utilities: esearch for record ids of an
// organism and efetch for the full GenBank records.
package entrez

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/s28672/pbio/internal/genbank"
	"github.com/s28672/pbio/internal/httputil"
	"github.com/s28672/pbio/pkg/types"
)

// eutilsBase is the E-utilities root. Declared as a var so tests can
// substitute an httptest server.
var eutilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/"

const (
	defaultTool     = "pbio"
	defaultDatabase = "nucleotide"
)

// Client talks to E-utilities on behalf of one caller. The configuration
// is fixed at construction and sent with every request.
type Client struct {
	HTTP   *http.Client
	Config types.EntrezConfig
}

// NewClient returns a Client with tool and database defaults filled in.
func NewClient(httpClient *http.Client, cfg types.EntrezConfig) *Client {
	if cfg.Tool == "" {
		cfg.Tool = defaultTool
	}
	if cfg.Database == "" {
		cfg.Database = defaultDatabase
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{HTTP: httpClient, Config: cfg}
}

// Search returns the ids of up to maxRecords records for the taxonomic id,
// in the order esearch ranks them.
func (c *Client) Search(ctx context.Context, taxid string, maxRecords int) ([]string, error) {
	taxid = strings.TrimSpace(taxid)
	if taxid == "" {
		return nil, fmt.Errorf("empty taxonomic id")
	}
	if maxRecords <= 0 {
		return nil, fmt.Errorf("max records must be positive, got %d", maxRecords)
	}

	params := c.params()
	params.Set("term", "txid"+taxid+"[Organism]")
	params.Set("retmax", strconv.Itoa(maxRecords))
	params.Set("retmode", "json")

	resp, err := c.get(ctx, "esearch.fcgi", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading esearch response: %w", err)
	}
	return parseSearch(body)
}

// parseSearch extracts esearchresult.idlist, surfacing the error fields
// E-utilities embeds in an otherwise successful response.
func parseSearch(body []byte) ([]string, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("parsing esearch response: invalid JSON")
	}
	res := gjson.ParseBytes(body)
	if e := res.Get("error"); e.Exists() {
		return nil, fmt.Errorf("esearch: %s", e.String())
	}
	if e := res.Get("esearchresult.ERROR"); e.Exists() {
		return nil, fmt.Errorf("esearch: %s", e.String())
	}
	list := res.Get("esearchresult.idlist")
	if !list.Exists() {
		return nil, fmt.Errorf("parsing esearch response: no idlist")
	}

	var ids []string
	for _, v := range list.Array() {
		if id := strings.TrimSpace(v.String()); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Fetch retrieves and parses the GenBank records for ids in one efetch call.
// The ids are sent comma-joined; records come back in request order.
func (c *Client) Fetch(ctx context.Context, ids []string) ([]types.SequenceRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	params := c.params()
	params.Set("id", strings.Join(ids, ","))
	params.Set("rettype", "gb")
	params.Set("retmode", "text")

	resp, err := c.get(ctx, "efetch.fcgi", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	records, err := genbank.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing efetch response: %w", err)
	}
	return records, nil
}

func (c *Client) params() url.Values {
	v := url.Values{
		"db":   {c.Config.Database},
		"tool": {c.Config.Tool},
	}
	if c.Config.Email != "" {
		v.Set("email", c.Config.Email)
	}
	if c.Config.APIKey != "" {
		v.Set("api_key", c.Config.APIKey)
	}
	return v
}

// get issues the request with throttling retry and rejects non-200 answers.
// The caller closes the body of a successful response.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (*http.Response, error) {
	base := eutilsBase
	if c.Config.BaseURL != "" {
		base = strings.TrimSuffix(c.Config.BaseURL, "/") + "/"
	}
	reqURL := base + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.Config.UserAgent != "" {
		req.Header.Set("User-Agent", c.Config.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%s returned HTTP %d", endpoint, resp.StatusCode)
	}
	return resp, nil
}
