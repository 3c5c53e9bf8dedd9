package audit

import "github.com/gofiber/fiber/v2"

// EntryFromRequest returns an Entry carrying the client address and user
// agent of c.
func EntryFromRequest(c *fiber.Ctx, userID uint64, action Action, entity EntityType) Entry {
	return Entry{
		UserID:     userID,
		Action:     action,
		EntityType: entity,
		IPAddress:  c.IP(),
		UserAgent:  c.Get(fiber.HeaderUserAgent),
	}
}

// WithEntity sets the entity id and name.
func (e Entry) WithEntity(id uint64, name string) Entry {
	e.EntityID = &id
	e.EntityName = name

	return e
}

// WithChanges sets the diff. A nil diff leaves the entry without changes.
func (e Entry) WithChanges(c *Changes) Entry {
	e.Changes = c

	return e
}

// WithMetadata merges kv into the entry metadata.
func (e Entry) WithMetadata(kv map[string]any) Entry {
	if len(kv) == 0 {
		return e
	}

	md := make(map[string]any, len(e.Metadata)+len(kv))
	for k, v := range e.Metadata {
		md[k] = v
	}

	for k, v := range kv {
		md[k] = v
	}

	e.Metadata = md

	return e
}
