package server

import (
	"queentouch/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetProducts handles GET /api/products
// The optional actor determines the final_price annotation.
func (s *Server) GetProducts(c *fiber.Ctx) error {
	category := c.Query("category")
	products, err := s.catalogService.ListProducts(c.Context(), category, currentActor(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"data": products})
}

// GetProduct handles GET /api/products/:id
func (s *Server) GetProduct(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	product, err := s.catalogService.GetProduct(c.Context(), id, currentActor(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(product)
}

// CreateProduct handles POST /api/admin/products
func (s *Server) CreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	product.ID = 0

	if err := s.catalogService.CreateProduct(c.Context(), &product); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// UpdateProduct handles PUT /api/admin/products/:id
func (s *Server) UpdateProduct(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	product.ID = id

	if err := s.catalogService.UpdateProduct(c.Context(), &product); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(product)
}

// DeleteProduct handles DELETE /api/admin/products/:id
func (s *Server) DeleteProduct(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.catalogService.DeleteProduct(c.Context(), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// GetCourses handles GET /api/courses
func (s *Server) GetCourses(c *fiber.Ctx) error {
	courses, err := s.catalogService.ListCourses(c.Context(), currentActor(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"data": courses})
}

// CreateCourse handles POST /api/admin/courses
func (s *Server) CreateCourse(c *fiber.Ctx) error {
	var course models.Course
	if err := c.BodyParser(&course); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	course.ID = 0

	if err := s.catalogService.CreateCourse(c.Context(), &course); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}
