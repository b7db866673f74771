package handlers

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strings"

	"sanket/middleware"
	"sanket/models"
	"sanket/services/orchestrator"
	"sanket/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/index.html
var templateFS embed.FS

// maxUploadBytes bounds an uploaded bill PDF.
const maxUploadBytes = 20 << 20

var pageTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"list": func(items ...string) []string { return items },
}).ParseFS(templateFS, "templates/index.html"))

// PageHandler serves the page and routes each form submission to the
// visitor's orchestrators. Every POST answers with a redirect back to the
// page so that a reload never resubmits.
type PageHandler struct {
	Registry *orchestrator.Registry
}

func NewPageHandler(registry *orchestrator.Registry) *PageHandler {
	return &PageHandler{Registry: registry}
}

func (h *PageHandler) app(c *gin.Context) *orchestrator.App {
	return h.Registry.Get(c.Request.Context(), middleware.VisitorID(c))
}

// ShowPage renders the visitor's current view model.
func (h *PageHandler) ShowPage(c *gin.Context) {
	page := h.app(c).Snapshot()
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)
	if err := pageTemplate.Execute(c.Writer, page); err != nil {
		getLogger(c).Error("Failed to render page", zap.Error(err))
	}
}

func (h *PageHandler) AnalyzeHandler(c *gin.Context) {
	req := models.AnalyzeRequest{
		BillName: c.PostForm("billName"),
		Language: c.PostForm("language"),
	}
	file, err := readUpload(c, "billFile")
	if err != nil {
		getLogger(c).Warn("Failed to read uploaded bill", zap.Error(err))
	}
	req.File = file

	h.finish(c, "analyze", h.app(c).Analyze(c.Request.Context(), req), "#results-wrapper")
}

func (h *PageHandler) CompareHandler(c *gin.Context) {
	err := h.app(c).Compare(c.Request.Context(), c.PostForm("billName"), c.PostForm("olderYear"), c.PostForm("language"))
	h.finish(c, "compare", err, "#compare")
}

func (h *PageHandler) ChatHandler(c *gin.Context) {
	h.finish(c, "chat", h.app(c).Chat(c.Request.Context(), c.PostForm("query")), "#chat")
}

type profileForm struct {
	State           string `form:"state"`
	Age             string `form:"age"`
	Sex             string `form:"sex"`
	Occupation      string `form:"occupation"`
	Income          string `form:"income"`
	Category        string `form:"category"`
	MaritalStatus   string `form:"marital_status"`
	IsOnlyGirlChild string `form:"is_only_girl_child"`
	ParentalStatus  string `form:"parental_status"`
}

func (f profileForm) toModel() models.Profile {
	return models.Profile{
		State:           strings.TrimSpace(f.State),
		Age:             models.FlexString(strings.TrimSpace(f.Age)),
		Sex:             f.Sex,
		Occupation:      strings.TrimSpace(f.Occupation),
		Income:          models.FlexString(strings.TrimSpace(f.Income)),
		Category:        f.Category,
		MaritalStatus:   f.MaritalStatus,
		IsOnlyGirlChild: f.IsOnlyGirlChild,
		ParentalStatus:  f.ParentalStatus,
	}
}

func (h *PageHandler) SaveProfileHandler(c *gin.Context) {
	var form profileForm
	if err := c.ShouldBind(&form); err != nil {
		getLogger(c).Warn("Invalid profile form", zap.Error(err))
		c.Redirect(http.StatusSeeOther, "/#profile")
		return
	}
	h.finish(c, "save-profile", h.app(c).SaveProfile(c.Request.Context(), form.toModel()), "#profile")
}

// ProfileFieldsHandler answers which dependent profile fields to show for
// the sex and age currently entered.
func (h *PageHandler) ProfileFieldsHandler(c *gin.Context) {
	var input struct {
		Sex string `form:"sex" json:"sex"`
		Age string `form:"age" json:"age"`
	}
	if err := c.ShouldBind(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	c.JSON(http.StatusOK, h.app(c).UpdateFields(input.Sex, input.Age))
}

func (h *PageHandler) RestoreHistoryHandler(c *gin.Context) {
	err := h.app(c).RestoreHistory(c.Request.Context(), c.Param("id"))
	h.finish(c, "restore-history", err, "#results-wrapper")
}

func (h *PageHandler) LoginHandler(c *gin.Context) {
	err := h.app(c).Login(c.Request.Context(), c.PostForm("email"), c.PostForm("password"))
	h.finish(c, "login", err, "#auth")
}

func (h *PageHandler) SignupHandler(c *gin.Context) {
	err := h.app(c).Signup(c.Request.Context(), c.PostForm("email"), c.PostForm("password"))
	h.finish(c, "signup", err, "#auth")
}

func (h *PageHandler) LogoutHandler(c *gin.Context) {
	h.app(c).Logout(c.Request.Context())
	c.Redirect(http.StatusSeeOther, "/")
}

// finish logs the workflow outcome and redirects back to the page. The
// outcome itself is already in the view model.
func (h *PageHandler) finish(c *gin.Context, workflow string, err error, anchor string) {
	logger := getLogger(c).With(zap.String("workflow", workflow))
	switch {
	case err == nil:
		logger.Debug("Workflow succeeded")
	case errors.Is(err, orchestrator.ErrBusy), errors.Is(err, orchestrator.ErrSuperseded):
		logger.Info("Workflow skipped", zap.Error(err))
	default:
		logger.Info("Workflow failed", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, "/"+anchor)
}

// readUpload returns the uploaded file under field, or nil when none was
// sent.
func readUpload(c *gin.Context, field string) (*models.BillFile, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if header.Size == 0 {
		return nil, nil
	}
	if header.Size > maxUploadBytes {
		return nil, errors.New("uploaded file is too large")
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return nil, err
	}
	return &models.BillFile{Name: header.Filename, Content: content}, nil
}
