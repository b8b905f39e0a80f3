package service

import (
	"bytes"
	"errors"
	"eventdesk/internal/dto"
	"eventdesk/internal/export"
	"net/http"

	"github.com/wb-go/wbf/ginext"
)

const (
	xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfMIME  = "application/pdf"
)

func (s *service) ExportXLSX(ctx *ginext.Context) {
	var buf bytes.Buffer
	err := export.XLSX(&buf, s.store.Registrations())
	s.sendExport(ctx, export.FormatXLSX, xlsxMIME, &buf, err)
}

func (s *service) ExportPDF(ctx *ginext.Context) {
	var buf bytes.Buffer
	err := export.PDF(&buf, s.store.Registrations(), s.now())
	s.sendExport(ctx, export.FormatPDF, pdfMIME, &buf, err)
}

func (s *service) sendExport(ctx *ginext.Context, format, mime string, buf *bytes.Buffer, err error) {
	if errors.Is(err, export.ErrNothingToExport) {
		dto.NothingToExportError(ctx)
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("format", format).Msg("export failed")
		dto.InternalServerError(ctx)
		return
	}
	ctx.Header("Content-Disposition", `attachment; filename="`+export.FileName(format, s.now())+`"`)
	ctx.Data(http.StatusOK, mime, buf.Bytes())
}
