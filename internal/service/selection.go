package service

import (
	"context"
	"strings"

	"github.com/Rrens/room-designer/internal/catalog"
	"github.com/Rrens/room-designer/internal/domain"
	"github.com/Rrens/room-designer/internal/events"
)

type RoomTypeOption struct {
	Value          string `json:"value"`
	Label          string `json:"label"`
	FurnitureCount int    `json:"furniture_count"`
}

type ThemeOption struct {
	Value           string   `json:"value"`
	Label           string   `json:"label"`
	Style           string   `json:"style"`
	WebsiteCount    int      `json:"website_count"`
	PreviewWebsites []string `json:"preview_websites"`
}

type SubtypeOption struct {
	Name       string                     `json:"name"`
	Dimensions domain.FurnitureDimensions `json:"dimensions"`
	AreaSqft   float64                    `json:"area_sqft"`
}

// RoomTypes lists selectable room types
func (s *DesignService) RoomTypes() []RoomTypeOption {
	names := s.catalog.RoomTypes()
	out := make([]RoomTypeOption, 0, len(names))
	for _, name := range names {
		cats, _ := s.catalog.Categories(name)
		out = append(out, RoomTypeOption{Value: name, Label: name, FurnitureCount: len(cats)})
	}
	return out
}

// Themes lists selectable design themes
func (s *DesignService) Themes() []ThemeOption {
	themes := s.catalog.Themes()
	out := make([]ThemeOption, 0, len(themes))
	for _, t := range themes {
		preview := t.Websites
		if len(preview) > 3 {
			preview = preview[:3]
		}
		out = append(out, ThemeOption{
			Value:           t.Name,
			Label:           themeLabel(t.Name),
			Style:           t.Style,
			WebsiteCount:    len(t.Websites),
			PreviewWebsites: preview,
		})
	}
	return out
}

// FurnitureTypes lists the categories available for the session's room type
func (s *DesignService) FurnitureTypes(ctx context.Context, id string) (string, []string, error) {
	sess, err := s.snapshot(ctx, id, domain.StepRoomType)
	if err != nil {
		return "", nil, err
	}
	cats, err := s.catalog.Categories(sess.RoomType)
	if err != nil {
		return "", nil, err
	}
	return sess.RoomType, cats, nil
}

// FurnitureSubtypes lists the subtypes of a category with their footprint
func (s *DesignService) FurnitureSubtypes(ctx context.Context, id, category string) ([]SubtypeOption, error) {
	sess, err := s.snapshot(ctx, id, domain.StepRoomType)
	if err != nil {
		return nil, err
	}
	subtypes, err := s.catalog.Subtypes(sess.RoomType, category)
	if err != nil {
		return nil, err
	}

	out := make([]SubtypeOption, 0, len(subtypes))
	for _, st := range subtypes {
		out = append(out, SubtypeOption{
			Name:       st.Name,
			Dimensions: st.FurnitureDimensions,
			AreaSqft:   domain.Round2(st.FootprintSqft()),
		})
	}
	return out, nil
}

type RoomTypeResult struct {
	RoomType           string   `json:"room_type"`
	AvailableFurniture []string `json:"available_furniture"`
}

// SelectRoomType sets the room type of the session
func (s *DesignService) SelectRoomType(ctx context.Context, id, roomType string) (*RoomTypeResult, error) {
	roomType = strings.TrimSpace(roomType)
	cats, err := s.catalog.Categories(roomType)
	if err != nil {
		return nil, domain.NewValidationError("room_type", "invalid room type. Valid options: %s",
			strings.Join(s.catalog.RoomTypes(), ", "))
	}

	if _, err := s.mutate(ctx, id, func(sess *domain.Session) error {
		sess.RoomType = roomType
		return nil
	}); err != nil {
		return nil, err
	}

	s.publish(ctx, events.RoomTypeSelected, id, map[string]any{"room_type": roomType})
	return &RoomTypeResult{RoomType: roomType, AvailableFurniture: cats}, nil
}

type ThemeResult struct {
	Theme        string   `json:"theme"`
	Style        string   `json:"style"`
	Websites     []string `json:"websites"`
	WebsiteCount int      `json:"website_count"`
	RoomType     string   `json:"room_type"`
}

// SelectTheme sets the design theme; names are matched case-insensitively
func (s *DesignService) SelectTheme(ctx context.Context, id, theme string) (*ThemeResult, error) {
	var t *catalog.Theme
	sess, err := s.mutate(ctx, id, func(sess *domain.Session) error {
		if err := sess.Require(domain.StepRoomType); err != nil {
			return err
		}
		found, ok := s.catalog.Theme(theme)
		if !ok {
			return domain.NewValidationError("theme", "invalid theme. Valid options: %s", strings.Join(s.themeNames(), ", "))
		}
		t = found
		sess.Theme = found.Name
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.ThemeSelected, id, map[string]any{"theme": t.Name})
	return &ThemeResult{
		Theme:        t.Name,
		Style:        t.Style,
		Websites:     t.Websites,
		WebsiteCount: len(t.Websites),
		RoomType:     sess.RoomType,
	}, nil
}

type DimensionsResult struct {
	domain.RoomSpec
	RoomType string `json:"room_type"`
	Theme    string `json:"theme"`
}

// SetDimensions sets room dimensions in feet
func (s *DesignService) SetDimensions(ctx context.Context, id string, length, width, height float64) (*DimensionsResult, error) {
	sess, err := s.mutate(ctx, id, func(sess *domain.Session) error {
		if err := sess.Require(domain.StepRoomType, domain.StepTheme); err != nil {
			return err
		}
		if sess.Room == nil {
			room, err := domain.NewRoomSpec(length, width, height)
			if err != nil {
				return err
			}
			sess.Room = room
			return nil
		}
		return sess.Room.SetDimensions(length, width, height)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.DimensionsSet, id, map[string]any{"floor_area_sqft": sess.Room.FloorAreaSqft})
	return &DimensionsResult{
		RoomSpec: domain.RoomSpec{
			Length:        sess.Room.Length,
			Width:         sess.Room.Width,
			Height:        sess.Room.Height,
			FloorAreaSqft: domain.Round2(sess.Room.FloorAreaSqft),
			VolumeCuft:    domain.Round2(sess.Room.VolumeCuft),
		},
		RoomType: sess.RoomType,
		Theme:    sess.Theme,
	}, nil
}

func (s *DesignService) themeNames() []string {
	themes := s.catalog.Themes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// themeLabel turns "MINIMAL_SCANDINAVIAN" into "Minimal Scandinavian"
func themeLabel(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
