package http

import "github.com/gofiber/fiber/v2"

// OK sends a 200 response with the given body.
func OK(c *fiber.Ctx, body any) error {
	return c.Status(fiber.StatusOK).JSON(body)
}

// Created sends a 201 response with the given body.
func Created(c *fiber.Ctx, body any) error {
	return c.Status(fiber.StatusCreated).JSON(body)
}

// Accepted sends a 202 response with the given body.
func Accepted(c *fiber.Ctx, body any) error {
	return c.Status(fiber.StatusAccepted).JSON(body)
}

// NoContent sends an empty 204 response.
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// Ping answers health probes.
func Ping(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).SendString("healthy")
}
