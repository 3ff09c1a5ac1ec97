// Package assets provides the HTML document template and the CSS themes
// a rendered document is styled with.
//
// Built-in assets are embedded. A custom directory laid out as
//
//	{dir}/styles/{name}.css
//	{dir}/templates/{name}.html
//
// can override any of them by name through an Overlay. The document
// template receives Title, Lang, Author, Date, CSS, Stylesheets and Body.
package assets
