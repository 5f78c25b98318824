package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trouve-ton-artisan/internal/catalog"
	"trouve-ton-artisan/internal/domain"
	httpez "trouve-ton-artisan/internal/transport/http/ez"
)

// MountAdminActions registers the catalog write endpoints. The group is
// already JWT-guarded with the admin role.
func MountAdminActions(admin *gin.RouterGroup, svc *catalog.Service) {
	ez := httpez.New(admin)

	type nameIn struct {
		Name string `json:"name" binding:"required"`
	}

	// --- categories ---

	httpez.RegisterAction[nameIn, *domain.Category](ez, httpez.Action[nameIn, *domain.Category]{
		Method: http.MethodPost,
		Path:   "/categories",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *nameIn) (*domain.Category, error) {
			return svc.CreateCategory(c.Request.Context(), in.Name)
		},
	})

	httpez.RegisterAction[nameIn, *domain.Category](ez, httpez.Action[nameIn, *domain.Category]{
		Method: http.MethodPut,
		Path:   "/categories/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *nameIn) (*domain.Category, error) {
			id, err := paramID(c)
			if err != nil {
				return nil, err
			}
			return svc.UpdateCategory(c.Request.Context(), id, in.Name)
		},
	})

	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/categories/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := paramID(c)
			if err != nil {
				return nil, err
			}
			if err := svc.DeleteCategory(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	// --- specialties ---

	type specialtyIn struct {
		Name       string `json:"name"       binding:"required"`
		CategoryID uint   `json:"categoryId" binding:"required"`
	}
	httpez.RegisterAction[specialtyIn, *domain.Specialty](ez, httpez.Action[specialtyIn, *domain.Specialty]{
		Method: http.MethodPost,
		Path:   "/specialites",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *specialtyIn) (*domain.Specialty, error) {
			return svc.CreateSpecialty(c.Request.Context(), in.Name, in.CategoryID)
		},
	})

	httpez.RegisterAction[nameIn, *domain.Specialty](ez, httpez.Action[nameIn, *domain.Specialty]{
		Method: http.MethodPut,
		Path:   "/specialites/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *nameIn) (*domain.Specialty, error) {
			id, err := paramID(c)
			if err != nil {
				return nil, err
			}
			return svc.UpdateSpecialty(c.Request.Context(), id, in.Name)
		},
	})

	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/specialites/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := paramID(c)
			if err != nil {
				return nil, err
			}
			if err := svc.DeleteSpecialty(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	// --- artisans ---

	httpez.RegisterAction[domain.Artisan, *domain.Artisan](ez, httpez.Action[domain.Artisan, *domain.Artisan]{
		Method: http.MethodPost,
		Path:   "/artisans",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *domain.Artisan) (*domain.Artisan, error) {
			in.ID = 0
			return svc.CreateArtisan(c.Request.Context(), *in)
		},
	})

	httpez.RegisterAction[domain.Artisan, *domain.Artisan](ez, httpez.Action[domain.Artisan, *domain.Artisan]{
		Method: http.MethodPut,
		Path:   "/artisans/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *domain.Artisan) (*domain.Artisan, error) {
			id, err := paramID(c)
			if err != nil {
				return nil, err
			}
			return svc.UpdateArtisan(c.Request.Context(), id, *in)
		},
	})

	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/artisans/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := paramID(c)
			if err != nil {
				return nil, err
			}
			if err := svc.DeleteArtisan(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	// POST /artisans/:id/featured  toggle the "artisan du mois" flag
	type featuredIn struct {
		Featured bool `json:"featured"`
	}
	httpez.RegisterAction[featuredIn, gin.H](ez, httpez.Action[featuredIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/artisans/:id/featured",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *featuredIn) (gin.H, error) {
			id, err := paramID(c)
			if err != nil {
				return nil, err
			}
			if err := svc.SetFeatured(c.Request.Context(), id, in.Featured); err != nil {
				return nil, err
			}
			return gin.H{"id": id, "featured": in.Featured}, nil
		},
	})

	// POST /import  bulk load, single transaction, top-down
	httpez.RegisterAction[[]catalog.ImportCategory, *catalog.ImportSummary](ez, httpez.Action[[]catalog.ImportCategory, *catalog.ImportSummary]{
		Method: http.MethodPost,
		Path:   "/import",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *[]catalog.ImportCategory) (*catalog.ImportSummary, error) {
			return svc.Import(c.Request.Context(), *in)
		},
	})
}
