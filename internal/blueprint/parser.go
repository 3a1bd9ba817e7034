package blueprint

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	armerrors "github.com/armature-dev/armature/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseFile loads a blueprint from disk into its raw working form.
func ParseFile(path string) (RawDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, armerrors.NewParseError(path, 0, err)
	}

	raw, err := RawFromYAML(data)
	if err != nil {
		return nil, armerrors.NewParseError(path, extractLine(err), err)
	}

	return raw, nil
}

// Parse converts the raw working document into the typed model, running
// field validation and cross-field structural checks. Every structural
// problem found is collected and returned together so callers never act on
// a truncated error picture.
func Parse(raw RawDocument) (*Document, error) {
	data, err := raw.ToYAML()
	if err != nil {
		return nil, armerrors.NewStructuralError("document", err.Error(), err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, armerrors.NewParseError("document", extractLine(err), err)
	}

	var problems []error

	if err := validatorInstance().Struct(&doc); err != nil {
		problems = append(problems, convertValidationError(err)...)
	}

	problems = append(problems, checkComponents(&doc)...)
	problems = append(problems, checkBindings(&doc)...)

	if len(problems) > 0 {
		return nil, &armerrors.StructuralErrors{Errors: problems}
	}

	return &doc, nil
}

func checkComponents(doc *Document) []error {
	var problems []error

	seen := make(map[string]int, len(doc.System.Components))
	for i, comp := range doc.System.Components {
		if prev, exists := seen[comp.Name]; exists {
			problems = append(problems, armerrors.NewStructuralError(
				fieldForComponent(i, "name"),
				fmt.Sprintf("duplicate component name %q (first declared at components[%d])", comp.Name, prev), nil))
			continue
		}
		seen[comp.Name] = i

		if !comp.Type.Valid() {
			problems = append(problems, armerrors.NewStructuralError(
				fieldForComponent(i, "type"),
				fmt.Sprintf("unknown component type %q", comp.Type), nil))
		}

		problems = append(problems, checkPortNames(comp.Inputs, fieldForComponent(i, "inputs"))...)
		problems = append(problems, checkPortNames(comp.Outputs, fieldForComponent(i, "outputs"))...)
	}

	return problems
}

func checkPortNames(ports []Port, field string) []error {
	var problems []error
	seen := make(map[string]struct{}, len(ports))
	for _, port := range ports {
		if _, exists := seen[port.Name]; exists {
			problems = append(problems, armerrors.NewStructuralError(
				field, fmt.Sprintf("duplicate port name %q", port.Name), nil))
		}
		seen[port.Name] = struct{}{}
	}
	return problems
}

func checkBindings(doc *Document) []error {
	var problems []error

	components := ComponentMap(doc.System.Components)

	for i, binding := range doc.System.Bindings {
		if len(binding.ToComponents) != len(binding.ToPorts) {
			problems = append(problems, armerrors.NewStructuralError(
				fieldForBinding(i, ""),
				fmt.Sprintf("to_components has %d entries but to_ports has %d",
					len(binding.ToComponents), len(binding.ToPorts)), nil))
		}

		if _, ok := components[binding.FromComponent]; !ok && binding.FromComponent != "" {
			problems = append(problems, armerrors.NewStructuralError(
				fieldForBinding(i, "from_component"),
				fmt.Sprintf("references unknown component %q", binding.FromComponent), nil))
		}

		for _, target := range binding.ToComponents {
			if _, ok := components[target]; !ok {
				problems = append(problems, armerrors.NewStructuralError(
					fieldForBinding(i, "to_components"),
					fmt.Sprintf("references unknown component %q", target), nil))
			}
		}
	}

	return problems
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}

	return line
}
