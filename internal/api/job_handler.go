package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobportal/internal/api/middleware"
	"jobportal/internal/errcode"
	"jobportal/internal/jobs"
)

// JobHandler 处理职位的发布、修改、删除与查询。
type JobHandler struct {
	jobs *jobs.Service
}

// NewJobHandler 构造职位处理器。
func NewJobHandler(jobService *jobs.Service) *JobHandler {
	return &JobHandler{jobs: jobService}
}

type jobRequest struct {
	Title        *string  `json:"title"`
	Company      *string  `json:"company"`
	Location     *string  `json:"location"`
	Description  *string  `json:"description"`
	Requirements *string  `json:"requirements"`
	MinSalary    *float64 `json:"min_salary"`
	MaxSalary    *float64 `json:"max_salary"`
	JobType      *string  `json:"job_type"`
	Status       *string  `json:"status"`
}

func (r jobRequest) fields() jobs.Fields {
	return jobs.Fields{
		Title:        r.Title,
		Company:      r.Company,
		Location:     r.Location,
		Description:  r.Description,
		Requirements: r.Requirements,
		MinSalary:    r.MinSalary,
		MaxSalary:    r.MaxSalary,
		JobType:      r.JobType,
		Status:       r.Status,
	}
}

// List 返回全部职位。
func (h *JobHandler) List(c *gin.Context) {
	items, err := h.jobs.List(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newJobList(items))
}

// Search 按条件分页检索职位。
func (h *JobHandler) Search(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		Fail(c, err)
		return
	}
	page, err := h.jobs.Search(c.Request.Context(), filter)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newJobPage(page))
}

// Mine 返回当前招聘者发布的职位。
func (h *JobHandler) Mine(c *gin.Context) {
	items, err := h.jobs.ListMine(c.Request.Context(), middleware.PrincipalFromContext(c))
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newJobList(items))
}

// Get 返回单个职位。
func (h *JobHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	job, err := h.jobs.Get(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newJobResponse(job))
}

// Create 发布职位。
func (h *JobHandler) Create(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	job, err := h.jobs.Create(c.Request.Context(), middleware.PrincipalFromContext(c), req.fields())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newJobResponse(job))
}

// Update 修改职位，仅覆盖请求中出现的字段。
func (h *JobHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	job, err := h.jobs.Update(c.Request.Context(), middleware.PrincipalFromContext(c), id, req.fields())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newJobResponse(job))
}

// Delete 删除职位及其全部申请。
func (h *JobHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.jobs.Delete(c.Request.Context(), middleware.PrincipalFromContext(c), id); err != nil {
		Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseFilter(c *gin.Context) (jobs.Filter, error) {
	f := jobs.Filter{
		Keyword:   c.Query("keyword"),
		Location:  c.Query("location"),
		JobType:   c.Query("jobType"),
		SortBy:    c.Query("sortBy"),
		Direction: c.Query("direction"),
	}
	var err error
	if f.MinSalary, err = queryFloat(c, "minSalary"); err != nil {
		return jobs.Filter{}, err
	}
	if f.MaxSalary, err = queryFloat(c, "maxSalary"); err != nil {
		return jobs.Filter{}, err
	}
	if f.Page, err = queryInt(c, "page"); err != nil {
		return jobs.Filter{}, err
	}
	if f.Size, err = queryInt(c, "size"); err != nil {
		return jobs.Filter{}, err
	}
	return f, nil
}

func queryFloat(c *gin.Context, key string) (*float64, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errcode.Invalid(key, "must be a number")
	}
	return &v, nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errcode.Invalid(key, "must be an integer")
	}
	return v, nil
}
