/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dirpx.dev/apikit/apis"
	"dirpx.dev/apikit/builder"
	"dirpx.dev/apikit/presenter"
	"dirpx.dev/apikit/registry"
)

func newCallCmd(a *app) *cobra.Command {
	var (
		method string
		data   string
	)

	cmd := &cobra.Command{
		Use:   "call <service> <path>",
		Short: "Send a request to a declared service and print the JSON response",
		Long: `Send a request to a declared service. The path is resolved against the
service base URL.

Examples:
  # GET a resource
  apikit call users users/42

  # POST a JSON body
  apikit call users users --method POST --data '{"name":"cy"}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCall(cmd, args[0], args[1], method, data)
		},
	}

	cmd.Flags().StringVarP(&method, "method", "X", "GET", "HTTP method")
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	return cmd
}

func (a *app) runCall(cmd *cobra.Command, name, path, method, data string) error {
	decl, ok := a.cfg.Services[name]
	if !ok {
		return errors.NotFoundf("service %q", name)
	}

	var body any
	if data != "" {
		if !json.Valid([]byte(data)) {
			return errors.NotValidf("request body")
		}
		body = json.RawMessage(data)
	}

	reg := registry.New(
		registry.WithBuilder(builder.New(builder.WithLogger(a.log), builder.WithMetrics(a.metrics))),
		registry.WithTransport(a.cfg.Transport),
		registry.WithLogger(a.log),
		registry.WithMetrics(a.metrics),
	)
	svc := registry.NewService[apis.Client](apis.Key(name), func(c apis.Client) apis.Client { return c })
	if err := registry.Init(reg, svc, decl.BaseURL, nil); err != nil {
		return errors.Trace(err)
	}
	c, err := registry.Get(reg, svc)
	if err != nil {
		return errors.Trace(err)
	}

	view := &consoleView{ctx: cmd.Context(), log: a.log, out: cmd.OutOrStdout()}
	p := &callPresenter{svc: c}
	p.Configure(presenter.WithLogger(a.log), presenter.WithMetrics(a.metrics))
	p.AttachView(view)
	werr := p.Call(strings.ToUpper(method), path, body).Wait()
	p.DetachView()

	if a.showMetrics {
		if err := printMetrics(cmd.ErrOrStderr(), a.promReg); err != nil {
			a.log.Warn("failed to print metrics", zap.Error(err))
		}
	}
	if werr != nil {
		return errors.Trace(werr)
	}
	return view.Err()
}

// callPresenter drives a single request on behalf of a consoleView.
type callPresenter struct {
	presenter.Rx[*consoleView]
	svc apis.Client
}

// Call sends the request in the background and delivers the raw response to
// the attached view.
func (p *callPresenter) Call(method, path string, body any) *presenter.Subscription {
	return presenter.Load(&p.Rx,
		func(ctx context.Context) (json.RawMessage, error) {
			var raw json.RawMessage
			err := p.svc.Do(ctx, method, path, body, &raw)
			return raw, err
		},
		(*consoleView).ShowResponse,
	)
}

// consoleView renders responses to a writer and progress to the log.
type consoleView struct {
	ctx context.Context
	log *zap.Logger
	out io.Writer

	started time.Time

	mu  sync.Mutex
	err error
}

var _ apis.View = (*consoleView)(nil)

func (v *consoleView) ShowProgress() {
	v.started = time.Now()
	v.log.Debug("request started")
}

func (v *consoleView) DismissProgress() {
	v.log.Debug("request finished", zap.Duration("elapsed", time.Since(v.started)))
}

func (v *consoleView) Context() context.Context {
	return v.ctx
}

func (v *consoleView) OnError(err error) {
	v.setErr(err)
}

// ShowResponse pretty-prints raw. An empty response prints nothing.
func (v *consoleView) ShowResponse(raw json.RawMessage) {
	if len(raw) == 0 {
		return
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		v.setErr(errors.Annotate(err, "format response"))
		return
	}
	buf.WriteByte('\n')
	if _, err := v.out.Write(buf.Bytes()); err != nil {
		v.setErr(errors.Annotate(err, "write response"))
	}
}

// Err returns the first error reported to the view.
func (v *consoleView) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

func (v *consoleView) setErr(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.err == nil {
		v.err = err
	}
}
