package artifact

import "strings"

// ComposePreview assembles a project's files into one renderable HTML
// document. The first file with an .html name becomes the body; every .css
// file becomes a <style> block in the head and every .js/.ts file becomes a
// module <script> appended after the body, each class keeping the order the
// files appear in the project. Extension matching is case-insensitive.
//
// The second return is false when the project has no HTML entry point,
// which is a normal outcome, not an error.
//
// The composed document is built from model output and must only ever be
// rendered inside a sandbox with no same-origin script privileges.
func ComposePreview(project GeneratedProject) (string, bool) {
	var htmlFile *GeneratedFile
	for i := range project.Files {
		if strings.HasSuffix(strings.ToLower(project.Files[i].Name), ".html") {
			htmlFile = &project.Files[i]
			break
		}
	}
	if htmlFile == nil {
		return "", false
	}

	var styles, scripts []string
	for _, file := range project.Files {
		name := strings.ToLower(file.Name)
		switch {
		case strings.HasSuffix(name, ".css"):
			styles = append(styles, "<style>"+file.Content+"</style>")
		case strings.HasSuffix(name, ".js"), strings.HasSuffix(name, ".ts"):
			scripts = append(scripts, `<script type="module">`+file.Content+"</script>")
		}
	}

	var doc strings.Builder
	doc.WriteString("<!doctype html>\n<html lang=\"en\">\n<head>\n")
	doc.WriteString("<meta charset=\"utf-8\" />\n")
	doc.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\" />\n")
	doc.WriteString(strings.Join(styles, "\n"))
	doc.WriteString("\n</head>\n<body>\n")
	doc.WriteString(htmlFile.Content)
	doc.WriteString("\n")
	doc.WriteString(strings.Join(scripts, "\n"))
	doc.WriteString("\n</body>\n</html>")
	return doc.String(), true
}
