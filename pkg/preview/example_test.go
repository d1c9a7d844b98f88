package preview_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/figslides/pkg/pptx"
	"github.com/matzehuels/figslides/pkg/preview"
)

func ExampleRenderSVG() {
	svg := preview.RenderSVG(pptx.SmokeTest())

	fmt.Println("SVG starts with:", string(svg[:4]))
	fmt.Println("Contains text:", strings.Contains(string(svg), pptx.SmokeText))
	// Output:
	// SVG starts with: <svg
	// Contains text: true
}
