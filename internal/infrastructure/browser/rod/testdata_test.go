package rod

// TestHTML templates for testing
const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1>Hello World</h1>
</body>
</html>`

	FormHTML = `<!DOCTYPE html>
<html>
<head><title>Test Form</title></head>
<body>
	<form id="testForm">
		<input id="username" type="text" name="username" />
		<input id="email" type="email" name="email" />
		<input id="password" type="password" name="password" />
		<input id="prefilled" type="text" name="prefilled" value="old content" />
		<select id="country" name="country">
			<option value="">Pick one</option>
			<option value="option1">Option 1</option>
			<option value="option2">Option 2</option>
			<option value="option3">Option 3</option>
		</select>
		<textarea id="comments" name="comments"></textarea>
		<input id="newsletter" type="checkbox" name="newsletter" />
		<input id="radio1" type="radio" name="choice" value="first" />
		<input id="radio2" type="radio" name="choice" value="second" />
		<button id="submit_btn" type="button">Submit</button>
	</form>
	<div id="result"></div>
	<script>
		document.getElementById('submit_btn').addEventListener('click', function() {
			document.getElementById('result').textContent = 'Submitted: ' +
				document.getElementById('username').value;
		});
	</script>
</body>
</html>`

	WidePageHTML = `<!DOCTYPE html>
<html>
<body style="width: 2000px; height: 800px; background-color: red;">
	<h1>Wide Page</h1>
</body>
</html>`
)
