package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/consumo/internal/core"
	"github.com/JonMunkholm/consumo/internal/logging"
	"github.com/JonMunkholm/consumo/internal/sheet"
	mw "github.com/JonMunkholm/consumo/internal/web/middleware"
	"github.com/JonMunkholm/consumo/internal/web/templates"
	"github.com/a-h/templ"
)

// Output formats accepted by the consumption endpoint.
const (
	formatXLSX = "xlsx"
	formatCSV  = "csv"
	formatJSON = "json"
	formatHTML = "html"
)

// ReportBaseName is the download name of an exported report, without extension.
const ReportBaseName = "consumo_insumos_total"

// Form errors. Messages are matched by core.MapError.
var (
	errNoFile       = errors.New("no file provided")
	errFileTooLarge = errors.New("file too large")
	errBadForm      = errors.New("invalid form")
)

// multipartMemory is how much of a multipart body is kept in memory
// before parts spill to temporary files.
const multipartMemory = 32 << 20

// consumptionResponse is the JSON body of a successful run.
type consumptionResponse struct {
	RunID           string               `json:"run_id"`
	Threshold       int                  `json:"threshold"`
	Rows            []core.ReportRow     `json:"rows"`
	Stats           core.RunStats        `json:"stats"`
	Warnings        []core.RecordWarning `json:"warnings"`
	CatalogWarnings []core.RecordWarning `json:"catalog_warnings"`
	DurationMS      int64                `json:"duration_ms"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	templ.Handler(templates.Index(s.service.DefaultThreshold())).ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status": "ok",
		"runs":   s.service.LimiterStatus(),
	})
}

// handleConsumption runs one consumption report from three uploaded
// workbooks and returns it in the requested format.
func (s *Server) handleConsumption(w http.ResponseWriter, r *http.Request) {
	maxFile := s.cfg.Upload.MaxFileSize
	// Three workbooks plus form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, 3*maxFile+1<<20)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			s.respondError(w, r, fmt.Errorf("request body too large: %w", err), 0)
			return
		}
		s.respondError(w, r, fmt.Errorf("%w: %v", errBadForm, err), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	format := strings.ToLower(strings.TrimSpace(r.FormValue("format")))
	if format == "" {
		format = formatXLSX
	}
	switch format {
	case formatXLSX, formatCSV, formatJSON, formatHTML:
	default:
		s.respondError(w, r, fmt.Errorf("%w: output %q", sheet.ErrUnsupportedFormat, format), http.StatusBadRequest)
		return
	}

	threshold := s.service.DefaultThreshold()
	if v := strings.TrimSpace(r.FormValue("threshold")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, r, fmt.Errorf("%w: %q", core.ErrInvalidThreshold, v), http.StatusBadRequest)
			return
		}
		threshold = n
	}

	m := s.cfg.Matching
	var in core.Inputs
	var err error
	if in.Recipes, err = s.loadTable(r, "recipes", m.RecipeSheetIndex); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	if in.Sales, err = s.loadTable(r, "sales", m.SalesSheetIndex); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	if in.Promotions, err = s.loadTable(r, "promotions", m.PromotionSheetIndex); err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	ctx := r.Context()
	if s.cfg.Upload.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Upload.Timeout)
		defer cancel()
	}

	res, err := s.service.Run(ctx, in, threshold)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	w.Header().Set(mw.RunIDHeader, res.RunID)

	switch format {
	case formatJSON:
		writeJSON(w, r, http.StatusOK, consumptionResponse{
			RunID:           res.RunID,
			Threshold:       res.Threshold,
			Rows:            res.Rows,
			Stats:           res.Stats,
			Warnings:        res.Warnings,
			CatalogWarnings: res.CatalogWarnings,
			DurationMS:      res.Duration.Milliseconds(),
		})
	case formatHTML:
		templ.Handler(templates.Result(res)).ServeHTTP(w, r)
	default:
		s.writeReport(w, r, res, format)
	}
}

// loadTable reads one uploaded workbook field into a table.
func (s *Server) loadTable(r *http.Request, field string, sheetIndex int) (core.Table, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return core.Table{}, fmt.Errorf("%s: %w", field, errNoFile)
		}
		return core.Table{}, fmt.Errorf("%s: %w: %v", field, errBadForm, err)
	}
	defer file.Close()

	if header.Size > s.cfg.Upload.MaxFileSize {
		return core.Table{}, fmt.Errorf("%s: %w (%d bytes, limit %d)", field, errFileTooLarge, header.Size, s.cfg.Upload.MaxFileSize)
	}

	logger := logging.WithFields(r.Context(), "field", field, "file", header.Filename)
	logger.Debug("workbook received", "bytes", header.Size, "sheet_index", sheetIndex)

	tbl, err := sheet.Read(header.Filename, file, sheetIndex)
	if err != nil {
		return core.Table{}, fmt.Errorf("%s: %w", field, err)
	}
	logger.Debug("workbook parsed", "rows", len(tbl.Rows), "columns", tbl.Width())
	tbl.Name = fmt.Sprintf("%s (%s)", field, header.Filename)
	return tbl, nil
}

// writeReport sends the report as a file attachment. The file is built in
// memory first so encoding failures still produce an error response.
func (s *Server) writeReport(w http.ResponseWriter, r *http.Request, res *core.RunResult, format string) {
	table := core.ReportTable(res.Rows)

	var buf bytes.Buffer
	var contentType string
	var err error
	switch format {
	case formatCSV:
		contentType = "text/csv; charset=utf-8"
		err = sheet.WriteCSV(&buf, table)
	default:
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = sheet.WriteXLSX(&buf, table, sheet.ReportSheetName)
	}
	if err != nil {
		s.respondError(w, r, fmt.Errorf("encode report: %w", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, ReportBaseName, format))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		logging.FromContext(r.Context()).Warn("report write failed", "error", err)
	}
}
