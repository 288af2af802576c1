// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package rpc

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"log"

	"github.com/creachadair/jrpc2"
	rpch "github.com/creachadair/jrpc2/handler"
	"github.com/hashicorp/docworld/internal/settings"
	"github.com/hashicorp/docworld/library"
	"github.com/hashicorp/docworld/session"
	"github.com/hashicorp/docworld/world"
	"github.com/hashicorp/go-multierror"
)

var discardLogs = log.New(ioutil.Discard, "", 0)

// service exposes a session through JSON-RPC methods
type service struct {
	sess   *session.Session
	logger *log.Logger
}

func NewService(sess *session.Session) *service {
	return &service{
		sess:   sess,
		logger: discardLogs,
	}
}

func (svc *service) SetLogger(logger *log.Logger) {
	svc.logger = logger
}

func (svc *service) Assigner() jrpc2.Assigner {
	m := map[string]interface{}{
		"configure":          svc.configure,
		"setInputs":          svc.setInputs,
		"setFonts":           svc.setFonts,
		"addFont":            svc.addFont,
		"setSourcesAndFiles": svc.setSourcesAndFiles,
		"addSource":          svc.addSource,
		"addFile":            svc.addFile,
		"compile":            svc.compile,
		"renderPdf":          svc.renderPDF,
		"renderSvg":          svc.renderSVG,
		"renderSvgPages":     svc.renderSVGPages,
		"fonts":              svc.fonts,
	}

	hm := make(rpch.Map, len(m))
	for method, fn := range m {
		hm[method] = rpch.New(fn)
	}
	return hm
}

func (svc *service) configure(ctx context.Context, raw map[string]interface{}) (*ConfigureResult, error) {
	out, err := settings.DecodeOptions(raw)
	if err != nil {
		return nil, err
	}
	if len(out.UnusedKeys) > 0 {
		svc.logger.Printf("ignoring unknown options: %q", out.UnusedKeys)
	}
	err = svc.sess.Configure(out.Options)
	if err != nil {
		return nil, err
	}
	return &ConfigureResult{UnusedKeys: out.UnusedKeys}, nil
}

func (svc *service) setInputs(ctx context.Context, params SetInputsParams) (bool, error) {
	inputs, err := library.DecodeInputs(params.Inputs)
	if err != nil {
		return false, err
	}
	svc.sess.SetInputs(inputs)
	return true, nil
}

func (svc *service) setFonts(ctx context.Context, params SetFontsParams) (*FontsResult, error) {
	err := svc.sess.SetFonts(params.Fonts)
	return svc.fontsResult(err)
}

func (svc *service) addFont(ctx context.Context, params world.FontInput) (*FontsResult, error) {
	err := svc.sess.AddFont(params)
	return svc.fontsResult(err)
}

// fontsResult reports font errors within the result
// since valid fonts are installed regardless
func (svc *service) fontsResult(err error) (*FontsResult, error) {
	result := &FontsResult{
		Faces:  len(svc.sess.Fonts()),
		Errors: make([]string, 0),
	}
	if err == nil {
		return result, nil
	}

	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, e := range merr.Errors {
			result.Errors = append(result.Errors, e.Error())
		}
		return result, nil
	}
	result.Errors = append(result.Errors, err.Error())
	return result, nil
}

func (svc *service) setSourcesAndFiles(ctx context.Context, params SetSourcesAndFilesParams) (bool, error) {
	err := svc.sess.SetSourcesAndFiles(params.Sources, params.Files)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (svc *service) addSource(ctx context.Context, params world.SourceInput) (bool, error) {
	if params.Path == "" {
		return false, fmt.Errorf("path is required")
	}
	err := svc.sess.AddSource(params.Path, params.Text)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (svc *service) addFile(ctx context.Context, params world.FileInput) (bool, error) {
	if params.Path == "" {
		return false, fmt.Errorf("path is required")
	}
	err := svc.sess.AddFile(params.Path, params.Data)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (svc *service) compile(ctx context.Context) (*CompileResult, error) {
	result := svc.sess.Compile(ctx)
	return &CompileResult{
		ID:       result.ID,
		Success:  result.Success(),
		Text:     result.Text(),
		Errors:   len(result.Errors()),
		Warnings: len(result.Warnings()),
	}, nil
}

func (svc *service) renderPDF(ctx context.Context) (*RenderPDFResult, error) {
	data, err := svc.sess.RenderPDF()
	if err != nil {
		return nil, err
	}
	return &RenderPDFResult{Data: data}, nil
}

func (svc *service) renderSVG(ctx context.Context) (string, error) {
	return svc.sess.RenderSVG(), nil
}

func (svc *service) renderSVGPages(ctx context.Context) ([]string, error) {
	return svc.sess.RenderSVGPages(), nil
}

func (svc *service) fonts(ctx context.Context) ([]FontInfo, error) {
	infos := svc.sess.Fonts()
	result := make([]FontInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, FontInfo{
			Family:    info.Family,
			Subfamily: info.Subfamily,
			FullName:  info.FullName,
			Style:     info.Style.String(),
			Weight:    info.Weight,
		})
	}
	return result, nil
}
