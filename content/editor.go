package content

// EditorKind is the normalized input-widget type of a property.
type EditorKind int

const (
	EditorUnknown EditorKind = iota
	EditorTextBox
	EditorTextArea
	EditorRichText
	EditorTags
	EditorMediaPicker
)

// Property editor aliases as published by the content platform.
const (
	TextBoxEditor     = "Umbraco.TextBox"
	TextAreaEditor    = "Umbraco.TextArea"
	RichTextEditor    = "Umbraco.RichText"
	TinyMCEEditor     = "Umbraco.TinyMCE"
	TagsEditor        = "Umbraco.Tags"
	MediaPickerEditor = "Umbraco.MediaPicker3"
)

var editorKinds = map[string]EditorKind{
	TextBoxEditor:          EditorTextBox,
	TextAreaEditor:         EditorTextArea,
	RichTextEditor:         EditorRichText,
	TinyMCEEditor:          EditorRichText,
	TagsEditor:             EditorTags,
	MediaPickerEditor:      EditorMediaPicker,
	"Umbraco.MediaPicker":  EditorMediaPicker,
	"Umbraco.ImageCropper": EditorMediaPicker,
}

// KindOf maps an editor alias to its EditorKind.
func KindOf(editorAlias string) EditorKind {
	return editorKinds[editorAlias]
}

func (k EditorKind) String() string {
	switch k {
	case EditorTextBox:
		return "textbox"
	case EditorTextArea:
		return "textarea"
	case EditorRichText:
		return "richtext"
	case EditorTags:
		return "tags"
	case EditorMediaPicker:
		return "media"
	default:
		return "unknown"
	}
}
