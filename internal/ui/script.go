package ui

import _ "embed"

// ScriptPath is where the storefront serves Script.
const ScriptPath = "/assets/storefront.js"

// Script drives accordions, carousels and count-ups in the browser with the
// rules of Accordion, Carousel and CountUp. Without it, pages still show the
// rendered initial state and the final metric values.
//
//go:embed assets/storefront.js
var Script []byte
