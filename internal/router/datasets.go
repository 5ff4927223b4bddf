package router

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/teftimov/IOHanalyzer/internal/apperr"
	"github.com/teftimov/IOHanalyzer/internal/storage"
	"github.com/teftimov/IOHanalyzer/pkg/pagination"
)

// DatasetRouter serves catalog discovery over archived datasets.
type DatasetRouter struct {
	e       *echo.Echo
	catalog storage.Catalog
}

func NewDatasetRouter(e *echo.Echo, catalog storage.Catalog) *DatasetRouter {
	return &DatasetRouter{
		e:       e,
		catalog: catalog,
	}
}

func (r *DatasetRouter) Bind() {
	r.e.GET("/api/v1/datasets", r.datasetsHandler)
}

func (r *DatasetRouter) datasetsHandler(c echo.Context) error {
	query := c.QueryParam("q")

	dim := 0
	if s := c.QueryParam("dim"); s != "" {
		var err error
		dim, err = strconv.Atoi(s)
		if err != nil || dim < 1 {
			return apperr.NewValidationf("dim must be a positive integer, got %q", s)
		}
	}

	var page pagination.OffsetRequest
	if err := c.Bind(&page); err != nil {
		return apperr.NewValidationWrap("malformed paging parameters", err)
	}

	results, err := r.catalog.Search(c.Request().Context(), query, dim, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, results)
}
