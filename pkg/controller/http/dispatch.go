package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/newsdesk/pkg/domain/interfaces"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
	"github.com/m-mizutani/newsdesk/pkg/usecase"
	"github.com/m-mizutani/newsdesk/pkg/utils/async"
)

// SignatureHeader carries "sha256=<hex HMAC-SHA256 of the body>"
const SignatureHeader = "X-Newsdesk-Signature-256"

const maxDispatchBody = 1 << 20

// DispatchHandler starts a pipeline run on an authenticated request
type DispatchHandler struct {
	secret     string
	pipelineUC interfaces.PipelineUseCase
	active     sync.WaitGroup
}

// NewDispatchHandler creates a new DispatchHandler
func NewDispatchHandler(secret string, pipelineUC interfaces.PipelineUseCase) *DispatchHandler {
	return &DispatchHandler{
		secret:     secret,
		pipelineUC: pipelineUC,
	}
}

// Handle verifies the signature and starts the run in the background
func (h *DispatchHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxDispatchBody))
	if err != nil {
		logger.Error("Failed to read request body", "error", err)
		writeError(w, r, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if !h.verifySignature(body, r.Header.Get(SignatureHeader)) {
		logger.Warn("Invalid dispatch signature")
		writeError(w, r, goerr.New("invalid signature"), http.StatusUnauthorized)
		return
	}

	if h.pipelineUC.Running() {
		writeError(w, r, usecase.ErrRunInProgress, http.StatusConflict)
		return
	}

	h.active.Add(1)
	async.Dispatch(ctx, func(ctx context.Context) error {
		defer h.active.Done()
		_, err := h.pipelineUC.Run(ctx, model.TriggerDispatch)
		if errors.Is(err, usecase.ErrRunInProgress) {
			ctxlog.From(ctx).Warn("Dispatched run skipped, another run started first")
			return nil
		}
		return err
	})

	writeJSON(w, r, http.StatusAccepted, map[string]string{
		"status": "accepted",
	})
}

// Wait blocks until every dispatched run has returned or ctx is done. No new run
// may be dispatched once Wait is called, so the HTTP server must be shut down first.
func (h *DispatchHandler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.active.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return goerr.Wrap(ctx.Err(), "dispatched run did not finish before shutdown")
	}
}

// verifySignature verifies the request signature
func (h *DispatchHandler) verifySignature(payload []byte, signature string) bool {
	signature, ok := strings.CutPrefix(signature, "sha256=")
	if !ok || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(payload)
	expectedMAC := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expectedMAC))
}
