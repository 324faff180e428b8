package server

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quill/models"
)

// GetBlogs handles GET /blog-site/blogs, returning all blogs with the author
// reference expanded.
func (s *Server) GetBlogs(c *fiber.Ctx) error {
	blogs, err := s.blogRepo.List(c.Context())
	if err != nil {
		return models.NewInternalError(err)
	}

	return models.RespondSuccess(c, fiber.StatusOK, blogs, "Blogs retrieved")
}

// GetBlog handles GET /blog-site/blogs/:id. A malformed id is a 400, a
// well-formed but absent id a 404; the two are never conflated.
func (s *Server) GetBlog(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return models.NewValidationError("Invalid blogId")
	}

	blog, err := s.blogRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.NewInternalError(err)
	}
	if blog == nil {
		return models.NewNotFoundError("Blog not found")
	}

	return models.RespondSuccess(c, fiber.StatusOK, blog, "Blog retrieved")
}

// CreateBlog handles POST /blog-site/blogs. The authorId in the body must
// resolve to an existing user before anything is written.
func (s *Server) CreateBlog(c *fiber.Ctx) error {
	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		Img      string `json:"img"`
		AuthorID string `json:"authorId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.NewValidationError("Invalid request body")
	}

	authorID, err := primitive.ObjectIDFromHex(req.AuthorID)
	if err != nil {
		return models.NewNotFoundError("User not found")
	}

	user, err := s.userRepo.GetByID(c.Context(), authorID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if user == nil {
		return models.NewNotFoundError("User not found")
	}

	blog, err := s.blogRepo.Create(c.Context(), &models.Blog{
		Title:   req.Title,
		Content: req.Content,
		Img:     req.Img,
		Author:  user.ID,
	})
	if err != nil {
		return models.NewInternalError(err)
	}

	return models.RespondSuccess(c, fiber.StatusCreated, blog, "Blog post created")
}

// UpdateBlog handles PUT /blog-site/blogs/:id. The body-supplied author is
// part of the atomic match condition: a wrong author yields the same 404 as
// a missing blog.
func (s *Server) UpdateBlog(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return models.NewValidationError("Invalid blogId")
	}

	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
		Img     *string `json:"img"`
		Author  string  `json:"author"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.NewValidationError("Invalid request body")
	}

	author, err := primitive.ObjectIDFromHex(req.Author)
	if err != nil {
		// An unresolvable author can never match a stored one.
		return models.NewNotFoundError("Blog not found or user is not the author")
	}

	blog, err := s.blogRepo.UpdateOwned(c.Context(), id, author, models.BlogPatch{
		Title:   req.Title,
		Content: req.Content,
		Img:     req.Img,
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	if blog == nil {
		return models.NewNotFoundError("Blog not found or user is not the author")
	}

	return models.RespondSuccess(c, fiber.StatusOK, blog, "Blog post updated")
}

// DeleteBlog handles DELETE /blog-site/blogs/:id with the same ownership
// gating as UpdateBlog.
func (s *Server) DeleteBlog(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return models.NewValidationError("Invalid blogId")
	}

	var req struct {
		Author string `json:"author"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.NewValidationError("Invalid request body")
	}

	author, err := primitive.ObjectIDFromHex(req.Author)
	if err != nil {
		return models.NewNotFoundError("Blog not found or user is not the author")
	}

	blog, err := s.blogRepo.DeleteOwned(c.Context(), id, author)
	if err != nil {
		return models.NewInternalError(err)
	}
	if blog == nil {
		return models.NewNotFoundError("Blog not found or user is not the author")
	}

	return models.RespondSuccess(c, fiber.StatusOK, nil, "Blog deleted successfully")
}
