package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// apiError is a failure message reported by the server
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("upload failed with status %d: %s", e.status, e.message)
}

// Submit uploads the selected file and renders the outcome
func (w *Widget) Submit(ctx context.Context) {
	w.setState(StateValidating)

	files := w.el.Input.Files()
	if len(files) == 0 || files[0] == nil {
		w.showToast(MsgNoFile)
		w.setState(StateRejected)
		return
	}
	file := files[0]
	if !IsValidPDF(file) {
		w.reject()
		return
	}

	w.setState(StateUploading)
	w.el.Loading.SetVisible(true)
	w.el.Result.SetVisible(false)

	resp, err := w.upload(ctx, file)
	w.el.Loading.SetVisible(false)

	if err != nil {
		msg := MsgProcessingFailed
		if apiErr, ok := err.(*apiError); ok {
			msg = apiErr.message
		}
		w.showToast(msg)
		w.logger.Error("pdf upload failed", "file", file.Name(), "error", err)
		w.setState(StateFailure)
		return
	}

	w.el.Narration.SetText(resp.NarrationPreview)
	w.el.Audio.SetSource(resp.AudioURL)
	w.el.Result.SetVisible(true)
	w.el.Result.FadeIn()
	w.setState(StateSuccess)
}

func (w *Widget) upload(ctx context.Context, file File) (*Response, error) {
	endpoint, err := w.endpoint()
	if err != nil {
		return nil, err
	}

	body, contentType, err := buildForm(file)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	res, err := w.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer res.Body.Close()

	var data Response
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, errors.Wrapf(err, "failed to decode response with status %d", res.StatusCode)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg := data.Error
		if msg == "" {
			msg = MsgResponseNotOK
		}
		return nil, &apiError{status: res.StatusCode, message: msg}
	}
	return &data, nil
}

func (w *Widget) endpoint() (string, error) {
	base, err := url.Parse(w.base)
	if err != nil {
		return "", errors.Wrap(err, "invalid base url")
	}
	ref, _ := url.Parse(UploadEndpoint)
	return base.ResolveReference(ref).String(), nil
}

// buildForm encodes file as the single multipart field "file", carrying its
// declared MIME type
func buildForm(file File) (io.Reader, string, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to open file")
	}
	defer rc.Close()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(file.Name())))
	h.Set("Content-Type", file.Type())

	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to create form part")
	}
	if _, err := io.Copy(part, rc); err != nil {
		return nil, "", errors.Wrap(err, "failed to read file")
	}
	if err := writer.Close(); err != nil {
		return nil, "", errors.Wrap(err, "failed to finalize form")
	}
	return body, writer.FormDataContentType(), nil
}
