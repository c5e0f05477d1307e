package cloud

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/veldtlabs/sbomstage/common"
	"github.com/veldtlabs/sbomstage/pathlib"
	"github.com/veldtlabs/sbomstage/pretty"
	"github.com/veldtlabs/sbomstage/set"
	"github.com/veldtlabs/sbomstage/settings"
)

// progressWriter wraps an io.Writer to track progress and update the
// progress indicator.
type progressWriter struct {
	writer      io.Writer
	progressBar pretty.ProgressIndicator
	written     int64
}

func (pw *progressWriter) Write(p []byte) (n int, err error) {
	n, err = pw.writer.Write(p)
	pw.written += int64(n)
	if pw.progressBar != nil {
		pw.progressBar.Update(pw.written, "")
	}
	return n, err
}

type internalClient struct {
	endpoint string
	client   *http.Client
	tracing  bool
	critical bool
}

type Request struct {
	Url              string
	Headers          map[string]string
	TransferEncoding string
	ContentLength    int64
	Body             io.Reader
	Stream           io.Writer
}

type Response struct {
	Status  int
	Err     error
	Body    []byte
	Elapsed common.Duration
}

type Client interface {
	Endpoint() string
	NewRequest(string) *Request
	Head(request *Request) *Response
	Get(request *Request) *Response
	Post(request *Request) *Response
	Put(request *Request) *Response
	Patch(request *Request) *Response
	Delete(request *Request) *Response
	NewClient(endpoint string) (Client, error)
	WithTimeout(time.Duration) Client
	WithTracing() Client
	Uncritical() Client
}

func EnsureHttps(endpoint string) (string, error) {
	nice := strings.TrimRight(strings.TrimSpace(endpoint), "/")
	parsed, err := url.Parse(nice)
	if err != nil {
		return "", err
	}
	if parsed.Host == "127.0.0.1" || strings.HasPrefix(parsed.Host, "127.0.0.1:") {
		return nice, nil
	}
	if parsed.Scheme != "https" {
		return "", fmt.Errorf("Endpoint '%s' must start with https:// prefix.", nice)
	}
	return nice, nil
}

func NewUnsafeClient(endpoint string) (Client, error) {
	return &internalClient{
		endpoint: strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		client:   &http.Client{Transport: settings.Global.ConfiguredHttpTransport()},
		tracing:  false,
		critical: true,
	}, nil
}

func NewClient(endpoint string) (Client, error) {
	https, err := EnsureHttps(endpoint)
	if err != nil {
		return nil, err
	}
	return &internalClient{
		endpoint: https,
		client:   &http.Client{Transport: settings.Global.ConfiguredHttpTransport()},
		tracing:  false,
		critical: true,
	}, nil
}

func (it *internalClient) Uncritical() Client {
	it.critical = false
	return it
}

func (it *internalClient) WithTimeout(timeout time.Duration) Client {
	return &internalClient{
		endpoint: it.endpoint,
		client: &http.Client{
			Transport: settings.Global.ConfiguredHttpTransport(),
			Timeout:   timeout,
		},
		tracing:  it.tracing,
		critical: it.critical,
	}
}

func (it *internalClient) WithTracing() Client {
	return &internalClient{
		endpoint: it.endpoint,
		client:   it.client,
		tracing:  true,
		critical: it.critical,
	}
}

func (it *internalClient) NewClient(endpoint string) (Client, error) {
	return NewClient(endpoint)
}

func (it *internalClient) Endpoint() string {
	return it.endpoint
}

func (it *internalClient) does(method string, request *Request) *Response {
	stopwatch := common.Stopwatch("stopwatch")
	response := new(Response)
	url := it.Endpoint() + request.Url
	common.Trace("Doing %s %s", method, url)
	defer func() {
		response.Elapsed = stopwatch.Elapsed()
		common.Trace("%s %s took %s", method, url, response.Elapsed)
	}()
	httpRequest, err := http.NewRequest(method, url, request.Body)
	if err != nil {
		response.Status = 9001
		response.Err = err
		return response
	}
	if request.ContentLength > 0 {
		httpRequest.ContentLength = request.ContentLength
	}
	if len(request.TransferEncoding) > 0 {
		httpRequest.TransferEncoding = []string{request.TransferEncoding}
	}
	httpRequest.Header.Add("User-Agent", common.UserAgent())
	for name, value := range request.Headers {
		httpRequest.Header.Add(name, value)
	}
	httpResponse, err := it.client.Do(httpRequest)
	if err != nil {
		if it.critical {
			common.Error("http.Do", err)
		} else {
			common.Uncritical("http.Do", err)
		}
		response.Status = 9002
		response.Err = err
		return response
	}
	defer httpResponse.Body.Close()
	if it.tracing {
		common.Trace("Response %d headers:", httpResponse.StatusCode)
		keys := set.Keys(httpResponse.Header)
		for _, key := range keys {
			common.Trace("> %s: %q", key, httpResponse.Header[key])
		}
	}
	response.Status = httpResponse.StatusCode
	if request.Stream != nil {
		io.Copy(request.Stream, httpResponse.Body)
	} else {
		response.Body, response.Err = io.ReadAll(httpResponse.Body)
	}
	if common.DebugFlag() {
		body := "ignore"
		if response.Status > 399 {
			body = string(response.Body)
		}
		common.Debug("%v %v => %v (%v)", method, url, response.Status, body)
	}
	return response
}

func (it *internalClient) NewRequest(url string) *Request {
	return &Request{
		Url:     url,
		Headers: make(map[string]string),
	}
}

func (it *internalClient) Head(request *Request) *Response {
	return it.does("HEAD", request)
}

func (it *internalClient) Get(request *Request) *Response {
	return it.does("GET", request)
}

func (it *internalClient) Post(request *Request) *Response {
	return it.does("POST", request)
}

func (it *internalClient) Put(request *Request) *Response {
	return it.does("PUT", request)
}

func (it *internalClient) Patch(request *Request) *Response {
	return it.does("PATCH", request)
}

func (it *internalClient) Delete(request *Request) *Response {
	return it.does("DELETE", request)
}

func Download(url, filename string) error {
	common.Debug("start %s download", filename)
	defer common.Debug("done %s download", filename)

	if pathlib.Exists(filename) {
		err := os.Remove(filename)
		if err != nil {
			return err
		}
	}

	client := &http.Client{Transport: settings.Global.ConfiguredHttpTransport()}
	request, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	request.Header.Add("User-Agent", common.UserAgent())
	request.Header.Add("Accept", "application/octet-stream")
	response, err := client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("Downloading %q failed, reason: %q!", url, response.Status)
	}

	out, err := pathlib.Create(filename)
	if err != nil {
		return err
	}
	defer out.Close()

	digest := sha256.New()

	common.Debug("Downloading %s <%s> -> %s", url, response.Status, filename)

	var progressBar pretty.ProgressIndicator
	contentLength := response.ContentLength
	if contentLength > 0 && pretty.Interactive {
		progressBar = pretty.NewProgressBar(fmt.Sprintf("Downloading %s", filename), contentLength)
		progressBar.Start()
		defer progressBar.Stop(true)
	}

	pw := &progressWriter{
		writer:      io.MultiWriter(out, digest),
		progressBar: progressBar,
		written:     0,
	}

	bytecount, err := io.Copy(pw, response.Body)
	if err != nil {
		if progressBar != nil {
			progressBar.Stop(false)
		}
		return err
	}

	common.Debug("downloaded %d bytes to %s", bytecount, filename)

	err = out.Sync()
	if err != nil {
		return err
	}

	return common.Debug("%q SHA256 sum: %02x", filename, digest.Sum(nil))
}
