package parse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"designer-dashboard-backend/internal/model"
)

func strPtr(s string) *string { return &s }

func TestFullName(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  string
		expectErr bool
	}{
		{name: "Plain", raw: "Alice", expected: "Alice"},
		{name: "Trimmed", raw: "  Bob Smith \t", expected: "Bob Smith"},
		{name: "Two characters", raw: "Al", expected: "Al"},
		{name: "Multibyte", raw: "李雷", expected: "李雷"},
		{name: "Too short", raw: "A", expectErr: true},
		{name: "Only spaces", raw: "   ", expectErr: true},
		{name: "Short after trim", raw: " x ", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FullName(tc.raw)
			if tc.expectErr {
				var fe *FieldError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, "fullName", fe.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestWorkingHours(t *testing.T) {
	for _, n := range []int{1, 8, 24} {
		got, err := WorkingHours(n)
		assert.NoError(t, err)
		assert.Equal(t, n, got)
	}
	for _, n := range []int{-1, 0, 25, 100} {
		_, err := WorkingHours(n)
		assert.Error(t, err, "hours %d", n)
	}
}

func TestColor(t *testing.T) {
	testCases := []struct {
		raw       string
		expected  string
		expectErr bool
	}{
		{raw: "#4a90d9", expected: "#4a90d9"},
		{raw: "#E74C3C", expected: "#e74c3c"},
		{raw: " #2ecc71 ", expected: "#2ecc71"},
		{raw: "", expectErr: true},
		{raw: "red", expectErr: true},
		{raw: "#fff", expectErr: true},
		{raw: "#12345g", expectErr: true},
		{raw: "4a90d9", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := Color(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestSize(t *testing.T) {
	testCases := []struct {
		raw       string
		expected  model.Size
		expectErr bool
	}{
		{raw: "small", expected: model.SizeSmall},
		{raw: "normal", expected: model.SizeNormal},
		{raw: "LARGE", expected: model.SizeLarge},
		{raw: "", expected: model.SizeNormal},
		{raw: "huge", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := Size(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestDesignerInput_Validate(t *testing.T) {
	d, err := DesignerInput{FullName: "  Dave ", WorkingHours: 8}.Validate()
	require.NoError(t, err)
	assert.Equal(t, model.NewDesigner{FullName: "Dave", WorkingHours: 8}, d)

	_, err = DesignerInput{FullName: "D", WorkingHours: 0}.Validate()
	var errs Errors
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, map[string]string{
		"fullName":     "Name must be at least 2 characters",
		"workingHours": "Working hours must be between 1 and 24",
	}, errs.Map())
}

func TestObjectInput_Validate(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		o, err := ObjectInput{Name: "Cube1", DesignerID: "d1"}.Validate()
		require.NoError(t, err)
		assert.Equal(t, model.NewObject{
			Name:       "Cube1",
			DesignerID: "d1",
			Color:      DefaultColor,
			Position:   DefaultPosition,
			Size:       model.SizeNormal,
		}, o)
	})

	t.Run("explicit fields", func(t *testing.T) {
		pos := model.Position{1, 0.35, -2}
		o, err := ObjectInput{Name: "Cube1", DesignerID: "d1", Color: "#E74C3C", Position: &pos, Size: "small"}.Validate()
		require.NoError(t, err)
		assert.Equal(t, "#e74c3c", o.Color)
		assert.Equal(t, pos, o.Position)
		assert.Equal(t, model.SizeSmall, o.Size)
	})

	t.Run("collects every error", func(t *testing.T) {
		_, err := ObjectInput{Name: "C", Color: "blue", Size: "huge"}.Validate()
		var errs Errors
		require.ErrorAs(t, err, &errs)
		m := errs.Map()
		assert.Len(t, m, 4)
		assert.Contains(t, m, "name")
		assert.Contains(t, m, "designerId")
		assert.Contains(t, m, "color")
		assert.Contains(t, m, "size")
		assert.Equal(t, "color", errs[0].Field, "errors are sorted by field")
	})
}

func TestPatchInput_Validate(t *testing.T) {
	t.Run("empty patch", func(t *testing.T) {
		p, err := PatchInput{}.Validate()
		require.NoError(t, err)
		assert.Equal(t, model.ObjectPatch{}, p)
	})

	t.Run("only present fields are set", func(t *testing.T) {
		p, err := PatchInput{Size: strPtr("large"), Name: strPtr("  Cube2 ")}.Validate()
		require.NoError(t, err)
		require.NotNil(t, p.Size)
		assert.Equal(t, model.SizeLarge, *p.Size)
		require.NotNil(t, p.Name)
		assert.Equal(t, "Cube2", *p.Name)
		assert.Nil(t, p.Color)
		assert.Nil(t, p.DesignerID)
		assert.Nil(t, p.Position)
	})

	t.Run("present but invalid", func(t *testing.T) {
		_, err := PatchInput{DesignerID: strPtr(""), Color: strPtr("#xyz")}.Validate()
		var errs Errors
		require.ErrorAs(t, err, &errs)
		assert.Equal(t, map[string]string{
			"color":      "Color must be a hex value like #4a90d9",
			"designerId": "A designer must be selected",
		}, errs.Map())
	})
}
