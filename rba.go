package cgt

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// This file fetches current AUD reference rates from a remote service, to
// top up a historical RBA table with the latest observation. Historical
// backfill still comes from the RBA CSV exports.

// diskCache implements a simple disk cache for HTTP responses.
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// diskCache derives a unique key per day, so the local tmp expires every day.
	key := fmt.Sprintf("%s %s %s", Today().String(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v/%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk.
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	file := filepath.Join(os.TempDir(), key)
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache.
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	file := filepath.Join(os.TempDir(), key)

	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	_, err = f.Write(content)
	f.Close()
	return err
}

// daily returns a client with a cache that expires every day.
func daily() *http.Client {
	client := new(http.Client)
	client.Transport = &diskCache{http.DefaultTransport}
	return client
}

// jwget fetches a URL and unmarshals the JSON response body into jobj.
func jwget(client *http.Client, addr string, jobj any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return fmt.Errorf("error getting %q: %w", addr, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("error getting %q: %s", addr, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading %q response: %w", addr, err)
	}
	if err := json.Unmarshal(body, jobj); err != nil {
		return fmt.Errorf("error parsing %q response: %w", addr, err)
	}
	return nil
}

// FetchLatestRate fetches the latest published AUD reference rate against the
// given foreign currency (foreign units per AUD, the RBA convention) and the
// date it was published on.
func FetchLatestRate(foreign string) (Date, decimal.Decimal, error) {
	addr := "https://api.frankfurter.app/latest?from=AUD&to=" + foreign
	var jobj any
	if err := jwget(daily(), addr, &jobj); err != nil {
		return Date{}, decimal.Decimal{}, fmt.Errorf("error in wget %q: %w", "AUD/"+foreign, err)
	}

	path := "$.rates." + foreign
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return Date{}, decimal.Decimal{}, fmt.Errorf("error parsing %q: %q %w", "AUD/"+foreign, path, err)
	}
	val, ok := jval.(float64)
	if !ok {
		return Date{}, decimal.Decimal{}, fmt.Errorf("error parsing %q: %q %s %v", "AUD/"+foreign, path, "not a float", jval)
	}

	jdate, err := jsonpath.Get("$.date", jobj)
	if err != nil {
		return Date{}, decimal.Decimal{}, fmt.Errorf("error parsing rate date: %w", err)
	}
	dateStr, ok := jdate.(string)
	if !ok {
		return Date{}, decimal.Decimal{}, fmt.Errorf("error parsing rate date: not a string: %v", jdate)
	}
	on, err := ParseDate(dateStr)
	if err != nil {
		return Date{}, decimal.Decimal{}, fmt.Errorf("error parsing rate date: %w", err)
	}

	return on, decimal.NewFromFloat(val), nil
}
