package views

// Dashboard is the single-page HTML control panel served at "/": an
// MJPEG/polling view tab, a snapshot download button, a fullscreen
// toggle, and a small poller against /status for live frame-count and
// FPS, ported from the original embedded dashboard (spec.md §4.10).
const Dashboard = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>imx415cam</title>
<style>
  body { margin: 0; background: #111; color: #eee; font-family: sans-serif; }
  header { padding: 0.5rem 1rem; display: flex; gap: 1rem; align-items: center; }
  #view { display: block; max-width: 100%; margin: 0 auto; background: #000; }
  button, select { background: #222; color: #eee; border: 1px solid #444; padding: 0.3rem 0.6rem; }
  #stats { font-size: 0.85rem; color: #9c9; }
</style>
</head>
<body>
<header>
  <strong>imx415cam</strong>
  <label>Mode:
    <select id="render-mode">
      <option value="grayscale">grayscale</option>
      <option value="color">color</option>
    </select>
  </label>
  <label>View:
    <select id="view-mode">
      <option value="stream">MJPEG stream</option>
      <option value="poll">Polling</option>
    </select>
  </label>
  <label><input type="checkbox" id="detect-toggle"> Detection</label>
  <button id="snapshot-btn">Download snapshot</button>
  <button id="fullscreen-btn">Fullscreen</button>
  <span id="stats"></span>
</header>
<img id="view" src="/stream">
<script>
const img = document.getElementById('view');
const viewMode = document.getElementById('view-mode');
const renderMode = document.getElementById('render-mode');
const detectToggle = document.getElementById('detect-toggle');
const stats = document.getElementById('stats');
let pollTimer = null;
let lastCount = 0;
let lastAt = Date.now();

function setView() {
  if (pollTimer) { clearInterval(pollTimer); pollTimer = null; }
  if (viewMode.value === 'stream') {
    img.src = '/stream?t=' + Date.now();
  } else {
    img.src = '/frame.jpg?t=' + Date.now();
    pollTimer = setInterval(() => { img.src = '/frame.jpg?t=' + Date.now(); }, 100);
  }
}

viewMode.addEventListener('change', setView);
renderMode.addEventListener('change', () => {
  fetch('/mode/' + renderMode.value, { method: 'POST' }).then(setView);
});
detectToggle.addEventListener('change', () => {
  fetch('/detect/' + (detectToggle.checked ? 'on' : 'off'), { method: 'POST' });
});
document.getElementById('snapshot-btn').addEventListener('click', () => {
  const a = document.createElement('a');
  a.href = '/frame.jpg?t=' + Date.now();
  a.download = 'snapshot.jpg';
  a.click();
});
document.getElementById('fullscreen-btn').addEventListener('click', () => {
  img.requestFullscreen && img.requestFullscreen();
});

setInterval(() => {
  fetch('/status').then(r => r.json()).then(s => {
    const now = Date.now();
    const dt = (now - lastAt) / 1000;
    const fps = dt > 0 ? ((s.frame_count - lastCount) / dt).toFixed(1) : '0.0';
    lastCount = s.frame_count;
    lastAt = now;
    stats.textContent = s.mode + ' | frames: ' + s.frame_count + ' | ~' + fps + ' fps';
    renderMode.value = s.mode;
    detectToggle.checked = s.detection_enabled;
  }).catch(() => {});
}, 1000);

setView();
</script>
</body>
</html>
`
