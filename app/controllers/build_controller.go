package controllers

import (
	"github.com/shashiranjanraj/pcbuilder/app/models"
	"github.com/shashiranjanraj/pcbuilder/app/resources"
	"github.com/shashiranjanraj/pcbuilder/app/services"
	"github.com/shashiranjanraj/pcbuilder/pkg/ctx"
	"github.com/shashiranjanraj/pcbuilder/pkg/resource"
)

const addedMessage = "Product added to your build!"

type BuildController struct {
	service *services.BuildService
}

func NewBuildController() *BuildController {
	return &BuildController{service: services.NewBuildService()}
}

func activeBuild(c *ctx.Context) uint {
	id, _ := c.Session().GetUint(sessionActiveBuild)
	return id
}

func (bc *BuildController) render(c *ctx.Context, b models.Build) resource.Map {
	return resources.Build(activeBuild(c))(b)
}

// Index handles GET /api/builds. A pending flash message rides along.
func (bc *BuildController) Index(c *ctx.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	builds, err := bc.service.ListBuilds(c.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}

	msg := ""
	if v, ok := c.Session().GetFlash(flashMessage); ok {
		msg, _ = v.(string)
	}
	c.Message(msg, resource.Many(builds, resources.Build(activeBuild(c))))
}

// Show handles GET /api/builds/{id}.
func (bc *BuildController) Show(c *ctx.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	b, err := bc.service.GetBuild(c.Context(), uid, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(bc.render(c, b))
}

// Store handles POST /api/builds.
func (bc *BuildController) Store(c *ctx.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	var in services.CreateBuildInput
	if !c.BindJSON(&in) {
		return
	}
	b, err := bc.service.CreateBuild(c.Context(), uid, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(bc.render(c, b))
}

// Update handles PATCH /api/builds/{id} (rename).
func (bc *BuildController) Update(c *ctx.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.RenameBuildInput
	if !c.BindJSON(&in) {
		return
	}
	b, err := bc.service.RenameBuild(c.Context(), uid, id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(bc.render(c, b))
}

// Destroy handles DELETE /api/builds/{id}. Deleting the active build clears
// the session pointer.
func (bc *BuildController) Destroy(c *ctx.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := bc.service.DeleteBuild(c.Context(), uid, id); err != nil {
		fail(c, err)
		return
	}
	if activeBuild(c) == id {
		c.Session().Delete(sessionActiveBuild)
	}
	c.NoContent()
}

// Activate handles POST /api/builds/{id}/activate.
func (bc *BuildController) Activate(c *ctx.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	b, err := bc.service.ActivateBuild(c.Context(), uid, id)
	if err != nil {
		fail(c, err)
		return
	}

	msg := "Now building: " + b.Name
	sess := c.Session()
	sess.Set(sessionActiveBuild, b.ID)
	sess.Flash(flashMessage, msg)
	c.Message(msg, bc.render(c, b))
}

// AddItem handles POST /api/builds/items. The resolved build becomes the
// active one whether or not the addition is accepted.
func (bc *BuildController) AddItem(c *ctx.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	var in services.AddItemInput
	if !c.BindJSON(&in) {
		return
	}

	b, err := bc.service.AddToBuild(c.Context(), uid, in, activeBuild(c))
	if b.ID != 0 {
		c.Session().Set(sessionActiveBuild, b.ID)
	}
	if err != nil {
		fail(c, err)
		return
	}

	c.Session().Flash(flashMessage, addedMessage)
	c.Message(addedMessage, bc.render(c, b))
}

// UpdateItem handles PATCH /api/builds/items/{itemID}.
func (bc *BuildController) UpdateItem(c *ctx.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemID")
	if !ok {
		return
	}
	var in services.UpdateQuantityInput
	if !c.BindJSON(&in) {
		return
	}
	b, err := bc.service.UpdateQuantity(c.Context(), uid, itemID, in.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(bc.render(c, b))
}

// RemoveItem handles DELETE /api/builds/items/{itemID}.
func (bc *BuildController) RemoveItem(c *ctx.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemID")
	if !ok {
		return
	}
	b, err := bc.service.RemoveFromBuild(c.Context(), uid, itemID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(bc.render(c, b))
}
