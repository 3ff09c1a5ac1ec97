package readiness

// Each script is a function expression evaluated in the page. Promises are
// awaited by the evaluator. Scripts resolve to "ready", "skipped",
// "unsupported" or a short diagnostic, and never reject on their own.

const imagesScript = `() => Promise.all(Array.from(document.images).map(img => {
  if (img.complete) {
    return img.naturalHeight > 0 ? "loaded" : "broken";
  }
  return new Promise(resolve => {
    img.addEventListener("load", () => resolve("loaded"), { once: true });
    img.addEventListener("error", () => resolve("broken"), { once: true });
  });
})).then(states => {
  const broken = states.filter(s => s === "broken").length;
  return broken > 0 ? broken + " of " + states.length + " images failed" : "ready";
})`

const fontsScript = `() => {
  if (!document.fonts || !document.fonts.ready) {
    return "unsupported";
  }
  return document.fonts.ready.then(() => "ready");
}`

// Infinite animations never finish and are ignored.
const animationsScript = `() => {
  if (typeof document.getAnimations !== "function") {
    return "unsupported";
  }
  const running = document.getAnimations().filter(a => {
    if (a.playState !== "running") return false;
    const timing = a.effect && a.effect.getComputedTiming ? a.effect.getComputedTiming() : null;
    return !timing || timing.iterations !== Infinity;
  });
  return Promise.all(running.map(a => a.finished.catch(() => null))).then(() => "ready");
}`

// mathScript waits only when math engine output exists. A node is pending
// while it carries a loading class, an explicit data-rendered="false"
// marker, or (MathJax) has no rendered inner node yet.
const mathScript = `() => {
  const selector = %q;
  const nodes = Array.from(document.querySelectorAll(selector));
  if (nodes.length === 0) {
    return "skipped";
  }
  const pending = () => nodes.some(n =>
    n.classList.contains("loading") ||
    n.getAttribute("data-rendered") === "false" ||
    (n.tagName.toLowerCase() === "mjx-container" && !n.querySelector("svg, mjx-math"))
  );
  if (!pending()) {
    return "ready";
  }
  return new Promise(resolve => {
    const observer = new MutationObserver(() => {
      if (!pending()) {
        observer.disconnect();
        resolve("ready");
      }
    });
    observer.observe(document.body, { subtree: true, childList: true, attributes: true });
  });
}`

const idleScript = `() => new Promise(resolve => {
  if (typeof requestIdleCallback === "function") {
    requestIdleCallback(() => resolve("ready"));
  } else {
    resolve("unsupported");
  }
})`
