// Package showcase renders the demo page that exercises a carousel from a
// browser. Everything here is presentation: the page reflects a carousel
// snapshot and forwards user interactions over the /ws endpoint.
package showcase

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Options are presentation-only settings; they never reach the engine.
type Options struct {
	Title          string
	ShowIndicators bool
	ShowControls   bool
	Size           string
}

// DefaultOptions mirrors the component's defaults.
func DefaultOptions() Options {
	return Options{
		Title:          "Fluent Carousel",
		ShowIndicators: true,
		ShowControls:   true,
		Size:           "medium",
	}
}

// SizeLabel returns the human readable name of a size, e.g. "Large".
func SizeLabel(size string) string {
	if size == "" {
		size = "medium"
	}
	return cases.Title(language.English).String(strings.ToLower(size))
}

// SizeClass returns the CSS modifier class for a size.
func SizeClass(size string) string {
	if size == "" {
		size = "medium"
	}
	return "fluent-carousel--" + strings.ToLower(size)
}

const pageCSS = `body{font-family:"Segoe UI",sans-serif;margin:2rem}
.fluent-carousel{position:relative;border-radius:8px;overflow:hidden;background:#f5f5f5}
.fluent-carousel--small{max-width:320px}.fluent-carousel--medium{max-width:640px}.fluent-carousel--large{max-width:960px}
.fluent-carousel__items{list-style:none;margin:0;padding:1rem}
.fluent-carousel__item{display:none}.fluent-carousel__item--active{display:block}
.fluent-carousel__indicator{width:10px;height:10px;border-radius:50%;border:0;background:#c8c8c8;margin:4px}
.fluent-carousel__indicator--active{background:#0f6cbd}`

// pageJS forwards interactions to the server and refreshes the markup on
// every state broadcast.
const pageJS = `(function(){
var root=document.getElementById("carousel");
var log=document.getElementById("events");
var ws=new WebSocket((location.protocol==="https:"?"wss://":"ws://")+location.host+"/ws");
function send(cmd){if(ws.readyState===1){ws.send(JSON.stringify(cmd));}}
root.addEventListener("click",function(e){
var el=e.target.closest("[data-action]");if(!el){return;}
send({action:el.dataset.action,index:parseInt(el.dataset.index||"0",10)});});
root.addEventListener("pointerenter",function(){send({action:"pointerenter"});});
root.addEventListener("pointerleave",function(){send({action:"pointerleave"});});
ws.onmessage=function(m){
var msg=JSON.parse(m.data);
if(msg.type==="state"){fetch("/fragment").then(function(r){return r.text();}).then(function(h){root.innerHTML=h;});return;}
if(msg.type==="itemChange"||msg.type==="itemClick"){
var li=document.createElement("li");
li.textContent=msg.type+" #"+msg.event.index+" ("+msg.event.source+")";
log.insertBefore(li,log.firstChild);}};
})();`
