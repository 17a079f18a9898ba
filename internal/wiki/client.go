// Package wiki is a minimal MediaWiki API client covering what the publisher
// needs: login, page text, edits, image info, and file uploads.
package wiki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"
)

type Client struct {
	apiURL     string
	userAgent  string
	httpClient *http.Client
}

// New builds a client for the wiki at host (e.g. "civwiki.org"). The session
// cookie jar lives for the client's lifetime; one login covers the whole run.
func New(host, userAgent string) (*Client, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, fmt.Errorf("wiki host is required")
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse wiki host: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		apiURL:    strings.TrimRight(u.String(), "/") + "/api.php",
		userAgent: userAgent,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 2 * time.Minute,
		},
	}, nil
}

// Login performs token-based bot login.
func (c *Client) Login(ctx context.Context, username, password string) error {
	token, err := c.token(ctx, "login")
	if err != nil {
		return fmt.Errorf("fetch login token: %w", err)
	}
	var resp struct {
		Login struct {
			Result string `json:"result"`
			Reason string `json:"reason"`
		} `json:"login"`
	}
	form := url.Values{
		"action":     {"login"},
		"lgname":     {username},
		"lgpassword": {password},
		"lgtoken":    {token},
	}
	if err := c.post(ctx, form, &resp); err != nil {
		return err
	}
	if resp.Login.Result != "Success" {
		return fmt.Errorf("login failed: %s %s", resp.Login.Result, resp.Login.Reason)
	}
	return nil
}

// PageText fetches the current wikitext of a page. A missing page returns
// empty text, not an error; publishing creates it.
func (c *Client) PageText(ctx context.Context, title string) (string, error) {
	var resp struct {
		Query struct {
			Pages []struct {
				Missing   bool `json:"missing"`
				Revisions []struct {
					Slots struct {
						Main struct {
							Content string `json:"content"`
						} `json:"main"`
					} `json:"slots"`
				} `json:"revisions"`
			} `json:"pages"`
		} `json:"query"`
	}
	err := c.get(ctx, url.Values{
		"action":        {"query"},
		"prop":          {"revisions"},
		"rvprop":        {"content"},
		"rvslots":       {"main"},
		"titles":        {title},
		"formatversion": {"2"},
	}, &resp)
	if err != nil {
		return "", err
	}
	if len(resp.Query.Pages) == 0 || resp.Query.Pages[0].Missing || len(resp.Query.Pages[0].Revisions) == 0 {
		return "", nil
	}
	return resp.Query.Pages[0].Revisions[0].Slots.Main.Content, nil
}

// EditPage replaces a page's text with an edit summary.
func (c *Client) EditPage(ctx context.Context, title, text, summary string) error {
	token, err := c.token(ctx, "csrf")
	if err != nil {
		return fmt.Errorf("fetch csrf token: %w", err)
	}
	var resp struct {
		Edit struct {
			Result string `json:"result"`
		} `json:"edit"`
		Error *apiError `json:"error"`
	}
	form := url.Values{
		"action":  {"edit"},
		"title":   {title},
		"text":    {text},
		"summary": {summary},
		"bot":     {"1"},
		"token":   {token},
	}
	if err := c.post(ctx, form, &resp); err != nil {
		return err
	}
	if resp.Error != nil {
		return fmt.Errorf("edit %s: %s", title, resp.Error)
	}
	if resp.Edit.Result != "Success" {
		return fmt.Errorf("edit %s: result %q", title, resp.Edit.Result)
	}
	return nil
}

// ImageSHA1 returns the content hash of the latest uploaded version of a
// file, with exists=false when the wiki has no such file (or no hash for it).
func (c *Client) ImageSHA1(ctx context.Context, filename string) (sha1 string, exists bool, err error) {
	var resp struct {
		Query struct {
			Pages []struct {
				Missing   bool `json:"missing"`
				ImageInfo []struct {
					SHA1 string `json:"sha1"`
				} `json:"imageinfo"`
			} `json:"pages"`
		} `json:"query"`
	}
	err = c.get(ctx, url.Values{
		"action":        {"query"},
		"prop":          {"imageinfo"},
		"iiprop":        {"sha1"},
		"titles":        {"File:" + filename},
		"formatversion": {"2"},
	}, &resp)
	if err != nil {
		return "", false, err
	}
	pages := resp.Query.Pages
	if len(pages) == 0 || pages[0].Missing || len(pages[0].ImageInfo) == 0 || pages[0].ImageInfo[0].SHA1 == "" {
		return "", false, nil
	}
	return pages[0].ImageInfo[0].SHA1, true, nil
}

// Upload pushes a local file to the wiki under filename. ignoreWarnings
// re-uploads over an existing file.
func (c *Client) Upload(ctx context.Context, filename, localPath, comment string, ignoreWarnings bool) error {
	token, err := c.token(ctx, "csrf")
	if err != nil {
		return fmt.Errorf("fetch csrf token: %w", err)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range map[string]string{
		"action":   "upload",
		"format":   "json",
		"filename": filename,
		"comment":  comment,
		"token":    token,
	} {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	if ignoreWarnings {
		if err := mw.WriteField("ignorewarnings", "1"); err != nil {
			return err
		}
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("User-Agent", c.userAgent)

	var resp struct {
		Upload struct {
			Result string `json:"result"`
		} `json:"upload"`
		Error *apiError `json:"error"`
	}
	if err := c.do(req, &resp); err != nil {
		return err
	}
	if resp.Error != nil {
		return fmt.Errorf("upload %s: %s", filename, resp.Error)
	}
	if resp.Upload.Result != "Success" {
		return fmt.Errorf("upload %s: result %q", filename, resp.Upload.Result)
	}
	return nil
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

func (e *apiError) String() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Info)
}

func (c *Client) token(ctx context.Context, kind string) (string, error) {
	var resp struct {
		Query struct {
			Tokens map[string]string `json:"tokens"`
		} `json:"query"`
	}
	err := c.get(ctx, url.Values{
		"action": {"query"},
		"meta":   {"tokens"},
		"type":   {kind},
	}, &resp)
	if err != nil {
		return "", err
	}
	token := resp.Query.Tokens[kind+"token"]
	if token == "" {
		return "", fmt.Errorf("no %s token in response", kind)
	}
	return token, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	params.Set("format", "json")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, form url.Values, out any) error {
	form.Set("format", "json")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("wiki api: status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode wiki response: %w", err)
	}
	return nil
}
